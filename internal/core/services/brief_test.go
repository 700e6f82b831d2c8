package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sitrep/internal/core/domain"
)

// fakeTickets returns a canned result, or panics to exercise isolation.
type fakeTickets struct {
	result domain.TicketResult
	panics bool
}

func (f fakeTickets) Fetch(ctx context.Context) domain.TicketResult {
	if f.panics {
		panic("ticket backend exploded")
	}
	return f.result
}

type fakeDeals struct {
	result domain.PipelineResult
	panics bool
}

func (f fakeDeals) Fetch(ctx context.Context) domain.PipelineResult {
	if f.panics {
		panic("crm backend exploded")
	}
	return f.result
}

type fakeDocs struct {
	result      domain.DocumentResult
	gotQuestion string
}

func (f *fakeDocs) Fetch(ctx context.Context, question string) domain.DocumentResult {
	f.gotQuestion = question
	return f.result
}

// fakePolisher implements driven.Summariser with canned polish output.
type fakePolisher struct {
	text string
	err  error

	gotDraft string
}

func (f *fakePolisher) Polish(ctx context.Context, question, brief string) (string, error) {
	f.gotDraft = brief
	return f.text, f.err
}

func (f *fakePolisher) SummariseDocuments(ctx context.Context, question string, docs []domain.ExtractedText) (string, error) {
	return "", nil
}

func (f *fakePolisher) ModelName() string { return "fake-model" }

type fakeSettings struct {
	thresholds domain.Thresholds
}

func (f fakeSettings) BriefThresholds() domain.Thresholds { return f.thresholds }

// validPolish builds text that satisfies the template guard.
func validPolish() string {
	var b strings.Builder
	for _, header := range RequiredHeaders() {
		b.WriteString(header)
		b.WriteString("\nA sharper executive reading of the situation, with context.\n\n")
	}
	return b.String()
}

func healthyService() (*BriefService, *fakeDocs) {
	sources := healthySources()
	docs := &fakeDocs{result: sources.SharePoint}
	svc := NewBriefService(
		fakeTickets{result: sources.ServiceNow},
		fakeDeals{result: sources.Salesforce},
		docs,
		nil, nil, nil,
	)
	return svc, docs
}

func TestBriefValidation(t *testing.T) {
	svc, _ := healthyService()

	t.Run("rejects an empty question", func(t *testing.T) {
		_, err := svc.Brief(context.Background(), "   ")
		assert.ErrorIs(t, err, domain.ErrInvalidQuestion)
	})

	t.Run("rejects an oversized question", func(t *testing.T) {
		_, err := svc.Brief(context.Background(), strings.Repeat("x", domain.MaxQuestionLength+1))
		assert.ErrorIs(t, err, domain.ErrInvalidQuestion)
	})

	t.Run("trims and echoes the question", func(t *testing.T) {
		brief, err := svc.Brief(context.Background(), "  what's going on?  ")
		require.NoError(t, err)
		assert.Equal(t, "what's going on?", brief.Question)
	})
}

func TestBriefFanOut(t *testing.T) {
	ctx := context.Background()

	t.Run("passes the question to the document source", func(t *testing.T) {
		svc, docs := healthyService()

		_, err := svc.Brief(ctx, "what's the incident status?")

		require.NoError(t, err)
		assert.Equal(t, "what's the incident status?", docs.gotQuestion)
	})

	t.Run("a panicking source does not disturb the others", func(t *testing.T) {
		sources := healthySources()
		svc := NewBriefService(
			fakeTickets{result: sources.ServiceNow},
			fakeDeals{panics: true},
			&fakeDocs{result: sources.SharePoint},
			nil, nil, nil,
		)

		brief, err := svc.Brief(ctx, "status?")

		require.NoError(t, err)
		assert.True(t, brief.Sources.ServiceNow.OK)
		assert.True(t, brief.Sources.SharePoint.OK)

		sf := brief.Sources.Salesforce
		assert.False(t, sf.OK)
		assert.Nil(t, sf.Data)
		assert.Contains(t, sf.Error, "unexpected failure")
		assert.Contains(t, sf.Error, "crm backend exploded")
	})

	t.Run("every result keeps ok and error mutually exclusive", func(t *testing.T) {
		sources := domain.Sources{
			ServiceNow: domain.TicketFailure(errors.New("down")),
			Salesforce: healthySources().Salesforce,
			SharePoint: domain.DocumentFailure(errors.New("no files")),
		}
		svc := NewBriefService(
			fakeTickets{result: sources.ServiceNow},
			fakeDeals{result: sources.Salesforce},
			&fakeDocs{result: sources.SharePoint},
			nil, nil, nil,
		)

		brief, err := svc.Brief(ctx, "status?")

		require.NoError(t, err)
		for _, st := range brief.Sources.Statuses() {
			if st.OK {
				assert.Empty(t, st.Error)
			} else {
				assert.NotEmpty(t, st.Error)
			}
		}
		assert.Nil(t, brief.Sources.ServiceNow.Data)
		assert.NotNil(t, brief.Sources.Salesforce.Data)
		assert.Nil(t, brief.Sources.SharePoint.Data)
		assert.NotEmpty(t, brief.Answer)
	})

	t.Run("stamps a UTC generation time", func(t *testing.T) {
		svc, _ := healthyService()

		brief, err := svc.Brief(ctx, "status?")

		require.NoError(t, err)
		assert.Equal(t, time.UTC, brief.GeneratedAt.Location())
		assert.WithinDuration(t, time.Now().UTC(), brief.GeneratedAt, 5*time.Second)
	})
}

func TestBriefPolish(t *testing.T) {
	ctx := context.Background()
	sources := healthySources()

	newService := func(p *fakePolisher) *BriefService {
		return NewBriefService(
			fakeTickets{result: sources.ServiceNow},
			fakeDeals{result: sources.Salesforce},
			&fakeDocs{result: sources.SharePoint},
			p, nil, nil,
		)
	}

	t.Run("serves accepted polish and reports the model", func(t *testing.T) {
		p := &fakePolisher{text: validPolish()}

		brief, err := newService(p).Brief(ctx, "status?")

		require.NoError(t, err)
		assert.Equal(t, validPolish(), brief.Answer)
		assert.True(t, brief.Polish.Used)
		assert.Equal(t, "fake-model", brief.Polish.Model)
		assert.Empty(t, brief.Polish.Error)
		assert.Contains(t, p.gotDraft, HeaderSourceStatus, "polisher must receive the full draft")
	})

	t.Run("a template violation falls back to the deterministic brief", func(t *testing.T) {
		p := &fakePolisher{text: "Everything is fine."}

		brief, err := newService(p).Brief(ctx, "status?")

		require.NoError(t, err)
		assert.Equal(t, BuildBrief(sources, domain.DefaultThresholds()), brief.Answer)
		assert.False(t, brief.Polish.Used)
		assert.Contains(t, brief.Polish.Error, "template violation")
	})

	t.Run("a polish error falls back silently", func(t *testing.T) {
		p := &fakePolisher{err: errors.New("Gemini returned HTTP 429")}

		brief, err := newService(p).Brief(ctx, "status?")

		require.NoError(t, err)
		assert.Equal(t, BuildBrief(sources, domain.DefaultThresholds()), brief.Answer)
		assert.False(t, brief.Polish.Used)
		assert.Contains(t, brief.Polish.Error, "429")
	})

	t.Run("no summariser skips the step with a reason", func(t *testing.T) {
		svc, _ := healthyService()

		brief, err := svc.Brief(ctx, "status?")

		require.NoError(t, err)
		assert.False(t, brief.Polish.Used)
		assert.Equal(t, "no LLM configured", brief.Polish.Error)
	})
}

func TestBriefThresholdsFromSettings(t *testing.T) {
	sources := healthySources()
	svc := NewBriefService(
		fakeTickets{result: sources.ServiceNow},
		fakeDeals{result: sources.Salesforce},
		&fakeDocs{result: sources.SharePoint},
		nil,
		fakeSettings{thresholds: domain.Thresholds{HighPriorityIncidents: 100, AtRiskRevenue: 200000}},
		nil,
	)

	brief, err := svc.Brief(context.Background(), "status?")

	require.NoError(t, err)
	// 78 incidents stay under the raised 100 threshold; $240,000 now
	// breaches the lowered revenue threshold.
	assert.Contains(t, brief.Answer, "Medium (at-risk revenue of $240,000 meets the $200,000 threshold)")
}
