package driving

import (
	"context"

	"github.com/custodia-labs/sitrep/internal/core/domain"
)

// BriefService answers a free-text question with an executive brief built
// from every configured source.
type BriefService interface {
	// Brief fans out to all sources, builds the deterministic brief, and
	// applies the optional LLM polish. It returns an error only for an
	// invalid question or a cancelled context; per-source failures are
	// reported inside the brief, never as errors.
	Brief(ctx context.Context, question string) (*domain.Brief, error)
}
