// Package env resolves credentials from process environment variables.
package env

import (
	"os"
	"strings"

	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
)

// Ensure Resolver implements the interface.
var _ driven.CredentialSource = (*Resolver)(nil)

// Resolver reads credentials from the environment. Blank values count as
// missing so an empty export cannot mask an absent credential.
type Resolver struct{}

// NewResolver creates an environment-backed credential source.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Lookup returns the value of key when it is set and non-blank.
func (r *Resolver) Lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}
