package domain

import "time"

// Account lookup strategies, recorded on the pipeline summary so a reader
// can tell how the target account was found.
const (
	// StrategyNamedAccount matched the configured account name exactly.
	StrategyNamedAccount = "named-account"

	// StrategyHotRating fell back to the most recently active Hot-rated account.
	StrategyHotRating = "hot-rating"
)

// Deal is one open opportunity on the target account.
type Deal struct {
	// Name is the opportunity name.
	Name string `json:"name"`

	// Stage is the pipeline stage label.
	Stage string `json:"stage"`

	// Amount is the deal value in the org's currency.
	Amount float64 `json:"amount"`

	// Probability is the close probability in percent (0-100).
	Probability float64 `json:"probability"`

	// CloseDate is the expected close date. Zero when the CRM omits it.
	CloseDate time.Time `json:"closeDate"`

	// AtRisk marks the deal as flagged by the at-risk policy.
	AtRisk bool `json:"atRisk"`
}

// PipelineSummary is the normalised CRM picture for the target account.
type PipelineSummary struct {
	// Account is the display name of the account the deals belong to.
	Account string `json:"account"`

	// Strategy names the lookup strategy that found the account.
	Strategy string `json:"strategy"`

	// OpenDeals counts the account's open opportunities.
	OpenDeals int `json:"openDeals"`

	// AtRiskDeals counts the open opportunities flagged at risk.
	AtRiskDeals int `json:"atRiskDeals"`

	// AtRiskValue totals the monetary value of the at-risk deals.
	AtRiskValue float64 `json:"atRiskValue"`

	// Deals lists the open opportunities with their risk flags.
	Deals []Deal `json:"deals,omitempty"`
}

// AtRiskPolicy flags deals that need attention without relying on
// org-specific custom fields. A deal is at risk when its probability is
// below the threshold or its close date falls within the window.
type AtRiskPolicy struct {
	// ProbabilityBelow is the exclusive percent threshold (a deal at
	// exactly this probability is not at risk).
	ProbabilityBelow float64

	// CloseWithinDays is the close-date window in days from now.
	// Zero disables the close-date rule.
	CloseWithinDays int
}

// DefaultAtRiskPolicy returns the stock thresholds: probability under 30%
// or closing within 45 days.
func DefaultAtRiskPolicy() AtRiskPolicy {
	return AtRiskPolicy{ProbabilityBelow: 30, CloseWithinDays: 45}
}

// AtRisk evaluates the policy against one deal. The close-date rule counts
// overdue deals as within the window.
func (p AtRiskPolicy) AtRisk(d Deal, now time.Time) bool {
	if d.Probability < p.ProbabilityBelow {
		return true
	}
	if p.CloseWithinDays > 0 && !d.CloseDate.IsZero() {
		edge := now.AddDate(0, 0, p.CloseWithinDays)
		return !d.CloseDate.After(edge)
	}
	return false
}

// Apply flags every deal in place and returns the at-risk count and total
// at-risk value.
func (p AtRiskPolicy) Apply(deals []Deal, now time.Time) (count int, value float64) {
	for i := range deals {
		if p.AtRisk(deals[i], now) {
			deals[i].AtRisk = true
			count++
			value += deals[i].Amount
		}
	}
	return count, value
}
