package sharepoint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sitrep/internal/core/domain"
)

const (
	defaultAuthority = "https://login.microsoftonline.com"
	defaultGraphBase = "https://graph.microsoft.com/v1.0"

	// graphScope requests the application permissions granted to the
	// client registration.
	graphScope = "https://graph.microsoft.com/.default"

	// maxErrorBody caps how much of a failed response is kept for
	// diagnostics.
	maxErrorBody = 200

	// maxDownloadBytes bounds a single file download.
	maxDownloadBytes = 20 << 20

	// maxMetadataBytes bounds a single JSON response.
	maxMetadataBytes = 4 << 20
)

// graphClient is a thin Graph REST client. The embedded http.Client
// injects bearer tokens from the client-credentials flow and follows the
// 302 that Graph answers content requests with.
type graphClient struct {
	http  *http.Client
	base  string
	limit *rate.Limiter
}

func newGraphClient(ctx context.Context, cfg *Config, authority, base string, limit *rate.Limiter) *graphClient {
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", authority, cfg.TenantID),
		Scopes:       []string{graphScope},
	}
	return &graphClient{
		http:  cc.Client(ctx),
		base:  base,
		limit: limit,
	}
}

// site is the slice of a Graph site resource the connector reads.
type site struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	WebURL      string `json:"webUrl"`
}

// drive is the slice of a Graph drive resource the connector reads.
type drive struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DriveType string `json:"driveType"`
}

// driveItem is the slice of a Graph driveItem the connector reads. The
// File and Folder facets tell the two kinds apart.
type driveItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	WebURL string `json:"webUrl"`
	Size   int64  `json:"size"`

	File *struct {
		MimeType string `json:"mimeType"`
	} `json:"file"`

	Folder *struct {
		ChildCount int `json:"childCount"`
	} `json:"folder"`

	Parent *struct {
		Path string `json:"path"`
	} `json:"parentReference"`
}

type siteList struct {
	Value []site `json:"value"`
}

type driveList struct {
	Value []drive `json:"value"`
}

type itemList struct {
	Value []driveItem `json:"value"`
}

// rootSite fetches the organisation's root site.
func (g *graphClient) rootSite(ctx context.Context) (*site, error) {
	var root site
	if err := g.get(ctx, "/sites/root", &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// searchSites finds sites whose name matches the search text.
func (g *graphClient) searchSites(ctx context.Context, name string) ([]site, error) {
	var list siteList
	if err := g.get(ctx, "/sites?search="+url.QueryEscape(name), &list); err != nil {
		return nil, err
	}
	return list.Value, nil
}

// listDrives lists the document libraries of a site.
func (g *graphClient) listDrives(ctx context.Context, siteID string) ([]drive, error) {
	var list driveList
	if err := g.get(ctx, "/sites/"+siteID+"/drives", &list); err != nil {
		return nil, err
	}
	return list.Value, nil
}

// searchItems runs a keyword search scoped to a drive.
func (g *graphClient) searchItems(ctx context.Context, driveID, query string) ([]driveItem, error) {
	// OData string literals double embedded quotes.
	escaped := url.PathEscape(strings.ReplaceAll(query, "'", "''"))

	var list itemList
	path := fmt.Sprintf("/drives/%s/root/search(q='%s')", driveID, escaped)
	if err := g.get(ctx, path, &list); err != nil {
		return nil, err
	}
	return list.Value, nil
}

// childItems lists the direct children of a folder.
func (g *graphClient) childItems(ctx context.Context, driveID, itemID string) ([]driveItem, error) {
	var list itemList
	path := fmt.Sprintf("/drives/%s/items/%s/children", driveID, itemID)
	if err := g.get(ctx, path, &list); err != nil {
		return nil, err
	}
	return list.Value, nil
}

// downloadContent fetches a file's bytes.
func (g *graphClient) downloadContent(ctx context.Context, driveID, itemID string) ([]byte, error) {
	path := fmt.Sprintf("/drives/%s/items/%s/content", driveID, itemID)

	resp, err := g.do(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("reading file content: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, graphError(resp.StatusCode, body)
	}
	return body, nil
}

// get issues a GET and decodes the JSON response into out.
func (g *graphClient) get(ctx context.Context, path string, out any) error {
	resp, err := g.do(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataBytes))
	if err != nil {
		return fmt.Errorf("reading Graph response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return graphError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("Graph returned an unexpected payload: %w", err)
	}
	return nil
}

func (g *graphClient) do(ctx context.Context, path string) (*http.Response, error) {
	if err := g.limit.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building Graph request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Graph request failed: %w", err)
	}
	return resp, nil
}

func graphError(status int, body []byte) error {
	return &domain.APIError{
		System:     "SharePoint",
		StatusCode: status,
		Body:       truncate(body, maxErrorBody),
	}
}

func truncate(body []byte, limit int) string {
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
