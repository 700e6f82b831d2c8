// Package services implements the driving port interfaces.
// The brief coordinator orchestrates the source fan-out, the deterministic
// builder renders the answer, and the template guard vets LLM output.
//
// Services depend only on the domain and the driven ports, never on
// concrete adapters.
package services
