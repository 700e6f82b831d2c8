package salesforce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
)

// Ensure Connector implements the source port.
var _ driven.DealSource = (*Connector)(nil)

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 200

// Connector fetches the pipeline picture: login, account lookup through an
// ordered strategy chain, then the account's open opportunities.
type Connector struct {
	creds  driven.CredentialSource
	policy domain.AtRiskPolicy
	http   *http.Client
	log    *zap.Logger

	// now is stubbed in tests to pin the close-date window.
	now func() time.Time
}

// New creates a Salesforce connector with the given at-risk policy.
func New(creds driven.CredentialSource, policy domain.AtRiskPolicy, log *zap.Logger) *Connector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Connector{
		creds:  creds,
		policy: policy,
		http:   &http.Client{},
		log:    log,
		now:    time.Now,
	}
}

// Fetch retrieves and normalises the pipeline summary. All failures
// collapse into the result; this method never returns an error.
func (c *Connector) Fetch(ctx context.Context) domain.PipelineResult {
	cfg, err := LoadConfig(c.creds)
	if err != nil {
		return domain.PipelineFailure(err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	summary, err := c.fetchPipeline(ctx, cfg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = errors.New("Salesforce request timed out")
		}
		c.log.Warn("salesforce fetch failed", zap.Error(err))
		return domain.PipelineFailure(err)
	}

	c.log.Debug("salesforce fetch succeeded",
		zap.String("account", summary.Account),
		zap.String("strategy", summary.Strategy),
		zap.Int("at_risk", summary.AtRiskDeals))
	return domain.PipelineSuccess(summary)
}

func (c *Connector) fetchPipeline(ctx context.Context, cfg *Config) (*domain.PipelineSummary, error) {
	sess, err := c.login(ctx, cfg)
	if err != nil {
		return nil, err
	}

	account, strategy, err := c.findAccount(ctx, sess, cfg)
	if err != nil {
		return nil, err
	}

	deals, err := c.openOpportunities(ctx, sess, account.ID)
	if err != nil {
		return nil, err
	}

	count, value := c.policy.Apply(deals, c.now())
	return &domain.PipelineSummary{
		Account:     account.Name,
		Strategy:    strategy,
		OpenDeals:   len(deals),
		AtRiskDeals: count,
		AtRiskValue: value,
		Deals:       deals,
	}, nil
}

// accountStrategy is one named way of picking the target account.
// Strategies are tried in order until one returns a row; the winner's name
// is recorded on the summary.
type accountStrategy struct {
	name string
	soql string
}

func strategiesFor(cfg *Config) []accountStrategy {
	var chain []accountStrategy
	if cfg.TargetAccount != "" {
		chain = append(chain, accountStrategy{
			name: domain.StrategyNamedAccount,
			soql: fmt.Sprintf("SELECT Id, Name FROM Account WHERE Name = '%s' LIMIT 1",
				escapeSOQL(cfg.TargetAccount)),
		})
	}
	chain = append(chain, accountStrategy{
		name: domain.StrategyHotRating,
		soql: "SELECT Id, Name FROM Account WHERE Rating = 'Hot' " +
			"ORDER BY LastActivityDate DESC NULLS LAST LIMIT 1",
	})
	return chain
}

// accountRecord mirrors the Account fields the strategies select.
type accountRecord struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

func (c *Connector) findAccount(ctx context.Context, sess *session, cfg *Config) (*accountRecord, string, error) {
	chain := strategiesFor(cfg)
	tried := make([]string, 0, len(chain))

	for _, strategy := range chain {
		tried = append(tried, strategy.name)

		var records []accountRecord
		if err := c.query(ctx, sess, strategy.soql, &records); err != nil {
			return nil, "", err
		}
		if len(records) > 0 {
			return &records[0], strategy.name, nil
		}
		c.log.Debug("account strategy matched nothing", zap.String("strategy", strategy.name))
	}

	return nil, "", fmt.Errorf("%w (tried %s)", domain.ErrNoAccount, strings.Join(tried, ", "))
}

// opportunityRecord mirrors the Opportunity fields the pipeline query
// selects. Amount and Probability are nullable in the org schema.
type opportunityRecord struct {
	Name        string   `json:"Name"`
	StageName   string   `json:"StageName"`
	Amount      *float64 `json:"Amount"`
	Probability *float64 `json:"Probability"`
	CloseDate   string   `json:"CloseDate"`
}

func (c *Connector) openOpportunities(ctx context.Context, sess *session, accountID string) ([]domain.Deal, error) {
	soql := fmt.Sprintf("SELECT Name, StageName, Amount, Probability, CloseDate "+
		"FROM Opportunity WHERE AccountId = '%s' AND IsClosed = false "+
		"ORDER BY CloseDate ASC LIMIT 50", escapeSOQL(accountID))

	var records []opportunityRecord
	if err := c.query(ctx, sess, soql, &records); err != nil {
		return nil, err
	}

	deals := make([]domain.Deal, 0, len(records))
	for _, r := range records {
		deal := domain.Deal{
			Name:  r.Name,
			Stage: r.StageName,
		}
		if r.Amount != nil {
			deal.Amount = *r.Amount
		}
		if r.Probability != nil {
			deal.Probability = *r.Probability
		}
		if r.CloseDate != "" {
			if closeDate, err := time.Parse("2006-01-02", r.CloseDate); err == nil {
				deal.CloseDate = closeDate
			}
		}
		deals = append(deals, deal)
	}
	return deals, nil
}

// queryResponse is the REST query envelope.
type queryResponse struct {
	TotalSize int               `json:"totalSize"`
	Done      bool              `json:"done"`
	Records   []json.RawMessage `json:"records"`
}

// query runs one SOQL statement and decodes each record into out, which
// must be a pointer to a slice.
func (c *Connector) query(ctx context.Context, sess *session, soql string, out any) error {
	endpoint := fmt.Sprintf("%s/services/data/v%s/query?q=%s",
		sess.InstanceURL, apiVersion, url.QueryEscape(soql))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building query request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+sess.ID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("Salesforce query failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("reading query response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.APIError{
			System:     "Salesforce",
			StatusCode: resp.StatusCode,
			Body:       truncate(body, maxErrorBody),
		}
	}

	var envelope queryResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("Salesforce returned an unexpected payload: %w", err)
	}

	// Re-encode the raw records into the caller's typed slice.
	merged, err := json.Marshal(envelope.Records)
	if err != nil {
		return fmt.Errorf("reshaping query records: %w", err)
	}
	if err := json.Unmarshal(merged, out); err != nil {
		return fmt.Errorf("Salesforce records had an unexpected shape: %w", err)
	}
	return nil
}

func truncate(body []byte, limit int) string {
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
