package driven

import (
	"context"

	"github.com/custodia-labs/sitrep/internal/core/domain"
)

// Source adapters never return a Go error: every failure at any
// configuration, network, or parsing step collapses into the result's
// ok/error fields so one source's failure cannot abort the others.
// Implementations must bound their own network calls with timeouts derived
// from ctx.

// TicketSource fetches the incident summary from the ticketing system.
type TicketSource interface {
	Fetch(ctx context.Context) domain.TicketResult
}

// DealSource fetches the open-deal pipeline picture from the CRM.
type DealSource interface {
	Fetch(ctx context.Context) domain.PipelineResult
}

// DocumentSource searches the document platform for material relevant to
// the question and returns a focused insight built from matched files.
type DocumentSource interface {
	Fetch(ctx context.Context, question string) domain.DocumentResult
}
