package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/sitrep/internal/core/domain"
)

// mockBriefService is a mock implementation of driving.BriefService.
type mockBriefService struct {
	brief       *domain.Brief
	err         error
	gotQuestion string
}

func (m *mockBriefService) Brief(_ context.Context, question string) (*domain.Brief, error) {
	m.gotQuestion = question
	if m.err != nil {
		return nil, m.err
	}
	b := *m.brief
	b.Question = question
	return &b, nil
}

// sampleBrief builds a brief with one healthy and one failed source.
func sampleBrief() *domain.Brief {
	return &domain.Brief{
		Answer: "EXECUTIVE BRIEF\n\nWHAT'S HAPPENING\n- quiet day",
		Sources: domain.Sources{
			ServiceNow: domain.TicketSuccess(&domain.TicketSummary{
				TotalHighPriority: 3,
				ByPriority:        []domain.PriorityCount{{Priority: "1", Count: 3}},
			}),
			Salesforce: domain.PipelineFailure(errors.New("Salesforce login failed")),
			SharePoint: domain.DocumentSuccess(&domain.DocumentInsight{
				Files:   []domain.FileSummary{{Name: "status.txt", Chars: 120}},
				Summary: "Title: status.txt\nAll systems nominal.",
			}),
		},
		Polish:      domain.PolishReport{Used: true, Model: "gemini-2.0-flash"},
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}
