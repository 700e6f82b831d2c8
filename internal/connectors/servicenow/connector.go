package servicenow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
)

// Ensure Connector implements the source port.
var _ driven.TicketSource = (*Connector)(nil)

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 200

// Connector fetches the incident summary over the instance's REST API.
type Connector struct {
	creds driven.CredentialSource
	http  *http.Client
	log   *zap.Logger
}

// New creates a ServiceNow connector. Credentials are resolved on every
// fetch so a fixed environment gap degrades results instead of startup.
func New(creds driven.CredentialSource, log *zap.Logger) *Connector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Connector{
		creds: creds,
		http:  &http.Client{},
		log:   log,
	}
}

// Fetch retrieves and normalises the incident summary. All failures
// collapse into the result; this method never returns an error.
func (c *Connector) Fetch(ctx context.Context) domain.TicketResult {
	cfg, err := LoadConfig(c.creds)
	if err != nil {
		return domain.TicketFailure(err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	summary, err := c.fetchSummary(ctx, cfg)
	if err != nil {
		c.log.Warn("servicenow fetch failed", zap.Error(err))
		return domain.TicketFailure(err)
	}

	c.log.Debug("servicenow fetch succeeded",
		zap.Int("total_high_priority", summary.TotalHighPriority))
	return domain.TicketSuccess(summary)
}

func (c *Connector) fetchSummary(ctx context.Context, cfg *Config) (*domain.TicketSummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.InstanceURL+cfg.SummaryPath, nil)
	if err != nil {
		return nil, fmt.Errorf("building ServiceNow request: %w", err)
	}
	req.SetBasicAuth(cfg.Username, cfg.Password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.New("ServiceNow request timed out")
		}
		return nil, fmt.Errorf("ServiceNow request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading ServiceNow response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.APIError{
			System:     "ServiceNow",
			StatusCode: resp.StatusCode,
			Body:       truncate(body, maxErrorBody),
		}
	}

	return parseSummary(body, cfg.InstanceURL)
}

// summaryPayload mirrors the instance's summary response shape.
type summaryPayload struct {
	TotalHighPriority int             `json:"totalHighPriority"`
	ByPriority        []priorityCount `json:"byPriority"`
}

type priorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

// parseSummary decodes the summary, unwrapping the instance's single-level
// "result" envelope when present.
func parseSummary(body []byte, instance string) (*domain.TicketSummary, error) {
	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil &&
		len(envelope.Result) > 0 && !bytes.Equal(envelope.Result, []byte("null")) {
		body = envelope.Result
	}

	var payload summaryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("ServiceNow returned an unexpected payload: %w", err)
	}

	summary := &domain.TicketSummary{
		TotalHighPriority: payload.TotalHighPriority,
		Instance:          hostOf(instance),
	}
	for _, pc := range payload.ByPriority {
		summary.ByPriority = append(summary.ByPriority, domain.PriorityCount{
			Priority: pc.Priority,
			Count:    pc.Count,
		})
	}
	return summary, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

func truncate(body []byte, limit int) string {
	s := string(bytes.TrimSpace(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
