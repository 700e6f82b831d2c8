// Package salesforce fetches the open-deal pipeline for a target account
// from the Salesforce CRM.
package salesforce

import (
	"strings"
	"time"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
)

// Environment keys for the Salesforce credential group.
const (
	EnvUsername = "SALESFORCE_USERNAME"
	EnvPassword = "SALESFORCE_PASSWORD"

	// EnvToken is the security token appended to the password during
	// login. Optional: orgs with trusted IP ranges don't issue one.
	EnvToken = "SALESFORCE_TOKEN"

	// EnvLoginURL optionally overrides the login host, e.g. for sandboxes
	// (https://test.salesforce.com).
	EnvLoginURL = "SALESFORCE_LOGIN_URL"

	// EnvTargetAccount optionally names the account to report on. When
	// unset the hot-rating strategy picks one.
	EnvTargetAccount = "SALESFORCE_TARGET_ACCOUNT"
)

const (
	// DefaultLoginURL is the production login host.
	DefaultLoginURL = "https://login.salesforce.com"

	// DefaultTimeout bounds the whole fetch, login included.
	DefaultTimeout = 25 * time.Second

	// apiVersion pins the SOAP and REST API version.
	apiVersion = "62.0"
)

// Config holds the resolved Salesforce connection settings.
type Config struct {
	// Username and Password authenticate the login call.
	Username string
	Password string

	// Token is the security token appended to the password.
	Token string

	// LoginURL is the login host, without a trailing slash.
	LoginURL string

	// TargetAccount is the account name for the named-account strategy.
	TargetAccount string

	// Timeout bounds the whole fetch.
	Timeout time.Duration
}

// LoadConfig resolves the Salesforce credential group. It returns a
// MissingKeysError naming every absent key.
func LoadConfig(creds driven.CredentialSource) (*Config, error) {
	cfg := &Config{
		LoginURL: DefaultLoginURL,
		Timeout:  DefaultTimeout,
	}

	var missing []string
	var ok bool

	if cfg.Username, ok = creds.Lookup(EnvUsername); !ok {
		missing = append(missing, EnvUsername)
	}
	if cfg.Password, ok = creds.Lookup(EnvPassword); !ok {
		missing = append(missing, EnvPassword)
	}
	if len(missing) > 0 {
		return nil, &domain.MissingKeysError{System: "Salesforce", Keys: missing}
	}

	cfg.Token, _ = creds.Lookup(EnvToken)
	if loginURL, ok := creds.Lookup(EnvLoginURL); ok {
		cfg.LoginURL = strings.TrimRight(loginURL, "/")
	}
	cfg.TargetAccount, _ = creds.Lookup(EnvTargetAccount)
	return cfg, nil
}
