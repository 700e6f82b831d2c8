// Package driven defines the outbound (secondary) ports of the hexagon.
//
// These interfaces are implemented by infrastructure adapters: the source
// connectors, the text normalisers, the LLM client, and the configuration
// resolvers. Core services depend only on these interfaces, never on the
// adapters themselves, which keeps every service testable with in-memory
// fakes.
package driven
