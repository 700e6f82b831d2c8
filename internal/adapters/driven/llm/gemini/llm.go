// Package gemini provides a Summariser adapter using the Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.Summariser = (*Service)(nil)

// Environment keys for the Gemini credential group.
const (
	EnvAPIKey = "GEMINI_API_KEY"
	EnvModel  = "GEMINI_MODEL"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is how many extra attempts a retryable failure
	// gets. Non-retryable failures never get a second attempt.
	DefaultMaxRetries = 2
)

// polishPrompt instructs the model to rewrite the deterministic brief
// without breaking its parseable structure. The template guard rejects
// output that drops a header, so the instruction is strict about them.
const polishPrompt = `You rewrite operational status briefs into crisp executive prose.
Keep every section header from the draft exactly as written and in the same order:
EXECUTIVE BRIEF, WHAT'S HAPPENING, WHY IT MATTERS, WHO'S IMPACTED, RISK LEVEL, RECOMMENDED ACTION, SOURCE STATUS.
Improve the wording under each header. Do not invent numbers, names or facts that are not in the draft. Do not add new sections.`

// documentsPrompt instructs the model to stay grounded in the supplied
// document text.
const documentsPrompt = `You answer questions using only the document excerpts provided.
Ground every statement in the excerpts and name the document it came from.
If the excerpts do not answer the question, say so plainly. Be concise.`

// Config holds configuration for the Gemini service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL (default: the public v1beta endpoint).
	BaseURL string

	// Model is the generation model (default: gemini-2.0-flash).
	Model string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// MaxRetries is the number of extra attempts for retryable failures
	// (default: 2).
	MaxRetries int
}

// LoadConfig resolves the Gemini credential group. It returns a
// MissingKeysError when the API key is absent.
func LoadConfig(creds driven.CredentialSource) (Config, error) {
	cfg := Config{}

	key, ok := creds.Lookup(EnvAPIKey)
	if !ok {
		return cfg, &domain.MissingKeysError{System: "Gemini", Keys: []string{EnvAPIKey}}
	}
	cfg.APIKey = key
	cfg.Model, _ = creds.Lookup(EnvModel)
	return cfg, nil
}

// Service provides brief polishing and document summarisation through the
// Gemini generateContent endpoint.
type Service struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	limit      *rate.Limiter

	// retryDelay is the backoff unit, shortened in tests.
	retryDelay time.Duration
}

// NewService creates a new Gemini service.
func NewService(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}

	return &Service{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		limit:      rate.NewLimiter(rate.Limit(4), 4),
		retryDelay: time.Second,
	}, nil
}

// Polish rewrites the deterministic brief in executive prose. Callers
// validate the output against the template guard before serving it.
func (s *Service) Polish(ctx context.Context, question, brief string) (string, error) {
	user := fmt.Sprintf("Question asked: %s\n\nDraft brief:\n%s", question, brief)
	return s.generate(ctx, polishPrompt, user)
}

// SummariseDocuments answers the question from extracted document text.
func (s *Service) SummariseDocuments(ctx context.Context, question string, docs []domain.ExtractedText) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", question)
	for _, doc := range docs {
		fmt.Fprintf(&b, "\n--- %s ---\n%s\n", doc.Title, doc.Text)
	}
	return s.generate(ctx, documentsPrompt, b.String())
}

// ModelName returns the model identifier for the polish report.
func (s *Service) ModelName() string {
	return s.model
}

// generateRequest is the generateContent request format.
type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is the generateContent response format.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// generate runs one completion with retries for rate limits and transient
// unavailability. Other failure classes return immediately.
func (s *Service) generate(ctx context.Context, system, user string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: user}}},
		},
		SystemInstruction: &content{
			Parts: []part{{Text: system}},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(1<<uint(attempt-1)) * s.retryDelay
			if err := sleep(ctx, delay); err != nil {
				return "", err
			}
		}

		text, err := s.call(ctx, endpoint, body)
		if err == nil {
			return text, nil
		}
		if !retryable(err) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("retries exhausted: %w", lastErr)
}

// call runs a single generateContent request.
func (s *Service) call(ctx context.Context, endpoint string, body []byte) (string, error) {
	if err := s.limit.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &domain.APIError{
			System:     "Gemini",
			StatusCode: resp.StatusCode,
			Body:       truncate(raw, 200),
		}
	}

	var genResp generateResponse
	if err := json.Unmarshal(raw, &genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if genResp.Error != nil {
		return "", fmt.Errorf("gemini error: %s", genResp.Error.Message)
	}
	if len(genResp.Candidates) == 0 {
		return "", domain.ErrEmptyCompletion
	}

	var text strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	result := strings.TrimSpace(text.String())
	if result == "" {
		return "", domain.ErrEmptyCompletion
	}
	return result, nil
}

// retryable reports whether the failure class warrants another attempt.
// The status code decides when one is available.
func retryable(err error) bool {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return retryableByMessage(err)
}

// retryableByMessage is the string-matching fallback for wrapped transport
// errors that carry no status code.
func retryableByMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "resource_exhausted", "quota", "overloaded"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// sleep waits for d or until the context ends.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(body []byte, limit int) string {
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
