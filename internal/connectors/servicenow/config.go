// Package servicenow fetches the high-priority incident summary from a
// ServiceNow instance.
package servicenow

import (
	"strings"
	"time"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
)

// Environment keys for the ServiceNow credential group.
const (
	EnvInstanceURL = "SERVICENOW_INSTANCE_URL"
	EnvUsername    = "SERVICENOW_USERNAME"
	EnvPassword    = "SERVICENOW_PASSWORD"

	// EnvSummaryPath optionally overrides the summary endpoint path.
	EnvSummaryPath = "SERVICENOW_SUMMARY_PATH"
)

const (
	// DefaultTimeout bounds the summary request.
	DefaultTimeout = 25 * time.Second

	// DefaultSummaryPath is the scripted REST endpoint that returns the
	// pre-aggregated incident summary.
	DefaultSummaryPath = "/api/x_sitrep/incident_summary"
)

// Config holds the resolved ServiceNow connection settings.
type Config struct {
	// InstanceURL is the instance base URL, without a trailing slash.
	InstanceURL string

	// Username and Password form the basic-auth pair.
	Username string
	Password string

	// SummaryPath is the endpoint path serving the incident summary.
	SummaryPath string

	// Timeout bounds the whole fetch.
	Timeout time.Duration
}

// LoadConfig resolves the ServiceNow credential group. It returns a
// MissingKeysError naming every absent key so the caller can degrade this
// source without touching the others.
func LoadConfig(creds driven.CredentialSource) (*Config, error) {
	cfg := &Config{
		SummaryPath: DefaultSummaryPath,
		Timeout:     DefaultTimeout,
	}

	var missing []string
	var ok bool

	if cfg.InstanceURL, ok = creds.Lookup(EnvInstanceURL); !ok {
		missing = append(missing, EnvInstanceURL)
	}
	if cfg.Username, ok = creds.Lookup(EnvUsername); !ok {
		missing = append(missing, EnvUsername)
	}
	if cfg.Password, ok = creds.Lookup(EnvPassword); !ok {
		missing = append(missing, EnvPassword)
	}
	if len(missing) > 0 {
		return nil, &domain.MissingKeysError{System: "ServiceNow", Keys: missing}
	}

	cfg.InstanceURL = strings.TrimRight(cfg.InstanceURL, "/")
	if path, ok := creds.Lookup(EnvSummaryPath); ok {
		cfg.SummaryPath = path
	}
	return cfg, nil
}
