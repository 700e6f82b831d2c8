package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
	"github.com/custodia-labs/sitrep/internal/core/ports/driving"
	"github.com/custodia-labs/sitrep/internal/metrics"
)

// Ensure BriefService implements the interface.
var _ driving.BriefService = (*BriefService)(nil)

// BriefService aggregates the three sources into one executive brief.
//
// The fan-out settles all sources: every fetch runs to completion (or
// panic recovery) and contributes a result, so one broken source can never
// abort or blank the others. The deterministic builder then always
// produces an answer; the LLM polish is a strictly optional afterstep.
type BriefService struct {
	tickets    driven.TicketSource
	deals      driven.DealSource
	documents  driven.DocumentSource
	summariser driven.Summariser
	settings   driven.SettingsSource
	log        *zap.Logger
}

// NewBriefService creates the coordinator. The summariser and settings are
// optional: a nil summariser skips the polish step, nil settings use the
// default thresholds.
func NewBriefService(
	tickets driven.TicketSource,
	deals driven.DealSource,
	documents driven.DocumentSource,
	summariser driven.Summariser,
	settings driven.SettingsSource,
	log *zap.Logger,
) *BriefService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BriefService{
		tickets:    tickets,
		deals:      deals,
		documents:  documents,
		summariser: summariser,
		settings:   settings,
		log:        log,
	}
}

// Brief answers one question. It returns an error only for an invalid
// question or a cancelled context; source failures are carried inside the
// brief, never raised.
func (s *BriefService) Brief(ctx context.Context, question string) (*domain.Brief, error) {
	q, err := domain.ValidateQuestion(question)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	sources := s.fetchAll(ctx, q)

	answer := BuildBrief(sources, s.thresholds())
	answer, polish := s.polish(ctx, q, answer)

	metrics.BriefDuration.Observe(time.Since(start).Seconds())
	s.log.Info("brief generated",
		zap.Int("healthy_sources", sources.HealthyCount()),
		zap.Bool("polished", polish.Used),
		zap.Duration("took", time.Since(start)))

	return &domain.Brief{
		Question:    q,
		Answer:      answer,
		Sources:     sources,
		Polish:      polish,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// fetchAll runs the three fetches concurrently and waits for all of them.
func (s *BriefService) fetchAll(ctx context.Context, question string) domain.Sources {
	var sources domain.Sources
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		sources.ServiceNow = s.fetchTickets(ctx)
	}()
	go func() {
		defer wg.Done()
		sources.Salesforce = s.fetchDeals(ctx)
	}()
	go func() {
		defer wg.Done()
		sources.SharePoint = s.fetchDocuments(ctx, question)
	}()

	wg.Wait()
	return sources
}

func (s *BriefService) fetchTickets(ctx context.Context) (result domain.TicketResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("ticket source panicked", zap.Any("panic", r))
			result = domain.TicketFailure(fmt.Errorf("unexpected failure: %v", r))
		}
		s.observe(result.Status, time.Since(start))
	}()
	return s.tickets.Fetch(ctx)
}

func (s *BriefService) fetchDeals(ctx context.Context) (result domain.PipelineResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("deal source panicked", zap.Any("panic", r))
			result = domain.PipelineFailure(fmt.Errorf("unexpected failure: %v", r))
		}
		s.observe(result.Status, time.Since(start))
	}()
	return s.deals.Fetch(ctx)
}

func (s *BriefService) fetchDocuments(ctx context.Context, question string) (result domain.DocumentResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("document source panicked", zap.Any("panic", r))
			result = domain.DocumentFailure(fmt.Errorf("unexpected failure: %v", r))
		}
		s.observe(result.Status, time.Since(start))
	}()
	return s.documents.Fetch(ctx, question)
}

func (s *BriefService) observe(st domain.Status, took time.Duration) {
	outcome := metrics.OutcomeOK
	if !st.OK {
		outcome = metrics.OutcomeFailed
	}
	metrics.SourceFetches.WithLabelValues(string(st.Source), outcome).Inc()
	metrics.SourceFetchDuration.WithLabelValues(string(st.Source)).Observe(took.Seconds())

	if st.OK {
		s.log.Info("source fetch succeeded",
			zap.String("source", string(st.Source)), zap.Duration("took", took))
	} else {
		s.log.Warn("source fetch failed",
			zap.String("source", string(st.Source)), zap.Duration("took", took),
			zap.String("error", st.Error))
	}
}

// polish asks the summariser to rewrite the draft and validates the output
// against the template guard. Any failure serves the deterministic draft,
// with the reason carried in the report.
func (s *BriefService) polish(ctx context.Context, question, draft string) (string, domain.PolishReport) {
	if s.summariser == nil {
		metrics.PolishOutcomes.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return draft, domain.PolishReport{Error: "no LLM configured"}
	}
	model := s.summariser.ModelName()

	polished, err := s.summariser.Polish(ctx, question, draft)
	if err != nil {
		s.log.Warn("polish failed, serving deterministic brief", zap.Error(err))
		metrics.PolishOutcomes.WithLabelValues(metrics.OutcomeFailed).Inc()
		return draft, domain.PolishReport{Model: model, Error: err.Error()}
	}
	if err := CheckTemplate(polished); err != nil {
		s.log.Warn("polished brief rejected by template guard", zap.Error(err))
		metrics.PolishOutcomes.WithLabelValues(metrics.OutcomeRejected).Inc()
		return draft, domain.PolishReport{Model: model, Error: err.Error()}
	}

	metrics.PolishOutcomes.WithLabelValues(metrics.OutcomeOK).Inc()
	return polished, domain.PolishReport{Used: true, Model: model}
}

func (s *BriefService) thresholds() domain.Thresholds {
	if s.settings == nil {
		return domain.DefaultThresholds()
	}
	return s.settings.BriefThresholds()
}
