package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sitrep/internal/core/domain"
)

func healthySources() domain.Sources {
	return domain.Sources{
		ServiceNow: domain.TicketSuccess(&domain.TicketSummary{
			TotalHighPriority: 78,
			ByPriority: []domain.PriorityCount{
				{Priority: "P1", Count: 72},
				{Priority: "P2", Count: 6},
			},
			Instance: "acme.service-now.com",
		}),
		Salesforce: domain.PipelineSuccess(&domain.PipelineSummary{
			Account:     "Globex",
			Strategy:    domain.StrategyNamedAccount,
			OpenDeals:   4,
			AtRiskDeals: 1,
			AtRiskValue: 240000,
		}),
		SharePoint: domain.DocumentSuccess(&domain.DocumentInsight{
			Files: []domain.FileSummary{
				{Name: "incident-report.docx", Chars: 1200},
				{Name: "notes.csv", Chars: 300},
			},
			Summary:         "INC-1 was resolved after a DNS fix.",
			SummarisedByLLM: true,
		}),
	}
}

func sourcesWith(snOK, sfOK, spOK bool) domain.Sources {
	sources := healthySources()
	if !snOK {
		sources.ServiceNow = domain.TicketFailure(errors.New("ServiceNow returned HTTP 401"))
	}
	if !sfOK {
		sources.Salesforce = domain.PipelineFailure(errors.New("Salesforce credentials incomplete"))
	}
	if !spOK {
		sources.SharePoint = domain.DocumentFailure(errors.New("no files matched the search"))
	}
	return sources
}

func TestBuildBriefTotality(t *testing.T) {
	for _, snOK := range []bool{true, false} {
		for _, sfOK := range []bool{true, false} {
			for _, spOK := range []bool{true, false} {
				name := fmt.Sprintf("serviceNow=%t salesforce=%t sharePoint=%t", snOK, sfOK, spOK)
				t.Run(name, func(t *testing.T) {
					brief := BuildBrief(sourcesWith(snOK, sfOK, spOK), domain.DefaultThresholds())

					require.NotEmpty(t, brief)
					for _, header := range RequiredHeaders() {
						assert.Contains(t, brief, header)
					}
				})
			}
		}
	}
}

func TestBuildBriefIsDeterministic(t *testing.T) {
	sources := sourcesWith(true, false, true)
	thresholds := domain.DefaultThresholds()

	first := BuildBrief(sources, thresholds)
	second := BuildBrief(sources, thresholds)

	assert.Equal(t, first, second, "same inputs must render byte-identical briefs")
}

func TestBuildBriefContent(t *testing.T) {
	t.Run("healthy scenario carries the numeric signals", func(t *testing.T) {
		brief := BuildBrief(healthySources(), domain.DefaultThresholds())

		assert.Contains(t, brief, "78 high-priority incidents (P1=72, P2=6) on acme.service-now.com")
		assert.Contains(t, brief, "1 of 4 open deals at risk worth $240,000 (via named-account)")
		assert.Contains(t, brief, "incident-report.docx, notes.csv")
		assert.Contains(t, brief, "- serviceNow: OK")
		assert.Contains(t, brief, "- salesforce: OK")
		assert.Contains(t, brief, "- sharePoint: OK")
		assert.NotContains(t, brief, "FAILED")
	})

	t.Run("incident volume over the threshold raises risk to High", func(t *testing.T) {
		brief := BuildBrief(healthySources(), domain.DefaultThresholds())

		assert.Contains(t, brief, "High (78 high-priority incidents meet the 50-incident threshold")
	})

	t.Run("at-risk revenue alone raises risk to Medium", func(t *testing.T) {
		sources := healthySources()
		sources.ServiceNow = domain.TicketSuccess(&domain.TicketSummary{TotalHighPriority: 3})
		sources.Salesforce.Data.AtRiskValue = 260000

		brief := BuildBrief(sources, domain.DefaultThresholds())

		assert.Contains(t, brief, "Medium (at-risk revenue of $260,000 meets the $250,000 threshold)")
	})

	t.Run("visibility gaps never raise the risk ordinal", func(t *testing.T) {
		brief := BuildBrief(sourcesWith(false, false, false), domain.DefaultThresholds())

		assert.Contains(t, brief, "Low (no thresholds breached)")
		assert.Contains(t, brief, "3 of 3 sources are unavailable")
	})

	t.Run("failed sources appear as gaps and in the footer", func(t *testing.T) {
		brief := BuildBrief(sourcesWith(true, false, true), domain.DefaultThresholds())

		assert.Contains(t, brief, "visibility gap, no data available (Salesforce credentials incomplete)")
		assert.Contains(t, brief, "- salesforce: FAILED (Salesforce credentials incomplete)")
		assert.Contains(t, brief, "- serviceNow: OK")
	})

	t.Run("quiet systems read as low risk", func(t *testing.T) {
		sources := domain.Sources{
			ServiceNow: domain.TicketSuccess(&domain.TicketSummary{TotalHighPriority: 0}),
			Salesforce: domain.PipelineSuccess(&domain.PipelineSummary{
				Account: "Globex", Strategy: domain.StrategyHotRating, OpenDeals: 2,
			}),
			SharePoint: domain.DocumentSuccess(&domain.DocumentInsight{
				Files:   []domain.FileSummary{{Name: "weekly.txt", Chars: 10}},
				Summary: "quiet week",
			}),
		}

		brief := BuildBrief(sources, domain.DefaultThresholds())

		assert.Contains(t, brief, "no high-priority incidents open")
		assert.Contains(t, brief, "2 open deals, none at risk")
		assert.Contains(t, brief, "Low (no thresholds breached)")
		assert.Contains(t, brief, "Monitor; no immediate action required.")
	})
}

func TestMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{999, "$999"},
		{1000, "$1,000"},
		{240000, "$240,000"},
		{250000, "$250,000"},
		{1234567, "$1,234,567"},
		{1234567.5, "$1,234,567.50"},
		{-42000, "-$42,000"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, money(tc.in), "money(%v)", tc.in)
	}
}
