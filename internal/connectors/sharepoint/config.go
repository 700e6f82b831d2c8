// Package sharepoint searches a SharePoint document library through the
// Microsoft Graph API and turns matched files into a document insight.
package sharepoint

import (
	"time"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
)

// Environment keys for the Graph credential group.
const (
	EnvTenantID     = "GRAPH_TENANT_ID"
	EnvClientID     = "GRAPH_CLIENT_ID"
	EnvClientSecret = "GRAPH_CLIENT_SECRET"

	// EnvSiteName optionally names the site to search. When unset the
	// organisation's root site is used.
	EnvSiteName = "SHAREPOINT_SITE_NAME"

	// EnvLibraryName optionally names the document library within the
	// site.
	EnvLibraryName = "SHAREPOINT_LIBRARY_NAME"
)

const (
	// DefaultLibraryName matches the display name SharePoint gives the
	// default document library of a team site.
	DefaultLibraryName = "Documents"

	// DefaultTimeout bounds the whole fetch: discovery, search,
	// downloads and summarisation.
	DefaultTimeout = 45 * time.Second
)

// Config holds the resolved Graph connection settings.
type Config struct {
	// TenantID, ClientID and ClientSecret drive the client-credentials
	// token exchange.
	TenantID     string
	ClientID     string
	ClientSecret string

	// SiteName is the site to search; empty selects the root site.
	SiteName string

	// LibraryName is the document library within the site.
	LibraryName string

	// Timeout bounds the whole fetch.
	Timeout time.Duration
}

// LoadConfig resolves the Graph credential group. It returns a
// MissingKeysError naming every absent key.
func LoadConfig(creds driven.CredentialSource) (*Config, error) {
	cfg := &Config{
		LibraryName: DefaultLibraryName,
		Timeout:     DefaultTimeout,
	}

	var missing []string
	var ok bool

	if cfg.TenantID, ok = creds.Lookup(EnvTenantID); !ok {
		missing = append(missing, EnvTenantID)
	}
	if cfg.ClientID, ok = creds.Lookup(EnvClientID); !ok {
		missing = append(missing, EnvClientID)
	}
	if cfg.ClientSecret, ok = creds.Lookup(EnvClientSecret); !ok {
		missing = append(missing, EnvClientSecret)
	}
	if len(missing) > 0 {
		return nil, &domain.MissingKeysError{System: "SharePoint", Keys: missing}
	}

	cfg.SiteName, _ = creds.Lookup(EnvSiteName)
	if library, ok := creds.Lookup(EnvLibraryName); ok {
		cfg.LibraryName = library
	}
	return cfg, nil
}
