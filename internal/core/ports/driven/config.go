package driven

import "github.com/custodia-labs/sitrep/internal/core/domain"

// CredentialSource resolves named secrets for the source connectors.
// The production adapter reads the process environment; tests inject
// map-backed fakes so connectors validate configuration without touching
// global state.
type CredentialSource interface {
	// Lookup returns the value for key and whether it is set and non-empty.
	Lookup(key string) (string, bool)
}

// SettingsSource provides live tunables to the core. Implementations may
// hot-reload from disk; callers must re-read per request rather than
// caching the values.
type SettingsSource interface {
	// BriefThresholds returns the current risk thresholds.
	BriefThresholds() domain.Thresholds
}
