package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxQuestionLength bounds the accepted question size in characters.
const MaxQuestionLength = 2000

// ValidateQuestion trims and validates a free-text question. It returns the
// cleaned question or ErrInvalidQuestion when the input is empty or too long.
func ValidateQuestion(raw string) (string, error) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return "", ErrInvalidQuestion
	}
	if utf8.RuneCountInString(q) > MaxQuestionLength {
		return "", ErrInvalidQuestion
	}
	return q, nil
}

// RiskLevel is the ordinal severity derived from the aggregated signals.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// String renders the level the way the brief template expects it.
func (r RiskLevel) String() string {
	switch r {
	case RiskHigh:
		return "High"
	case RiskMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// Thresholds are the configuration constants the deterministic brief uses
// to derive the risk level. They are plain settings, never statistically
// derived.
type Thresholds struct {
	// HighPriorityIncidents raises risk to High at or above this count.
	HighPriorityIncidents int

	// AtRiskRevenue raises risk to at least Medium at or above this value.
	AtRiskRevenue float64
}

// DefaultThresholds returns the stock values: 50 high-priority incidents
// for High, $250,000 at-risk revenue for Medium.
func DefaultThresholds() Thresholds {
	return Thresholds{HighPriorityIncidents: 50, AtRiskRevenue: 250_000}
}

// PolishReport describes the LLM polish outcome alongside the final text,
// so a failed polish is observable without affecting the response.
type PolishReport struct {
	// Used reports whether the served answer came from the model.
	Used bool `json:"used"`

	// Model is the model identifier, set when Used is true.
	Model string `json:"model,omitempty"`

	// Error is the reason the polish was skipped or rejected.
	Error string `json:"error,omitempty"`
}

// Brief is the response envelope for one answered question.
type Brief struct {
	// Question is the cleaned question that was answered.
	Question string `json:"question"`

	// Answer is the executive brief text, polished or deterministic.
	Answer string `json:"combinedAnswer"`

	// Sources carries every per-source result, including failures.
	Sources Sources `json:"sources"`

	// Polish describes whether and how the LLM rewrite was applied.
	Polish PolishReport `json:"gemini"`

	// GeneratedAt is the UTC time the brief was assembled.
	GeneratedAt time.Time `json:"generatedAt"`
}
