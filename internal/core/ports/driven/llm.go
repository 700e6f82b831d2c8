package driven

import (
	"context"

	"github.com/custodia-labs/sitrep/internal/core/domain"
)

// Summariser provides hosted text generation for the two LLM touchpoints:
// polishing the deterministic brief and condensing extracted documents.
// This is an optional service. When nil, the polish step is skipped and
// document insights carry raw extracted text.
type Summariser interface {
	// Polish rewrites the deterministic brief in executive prose while
	// preserving the required section structure. Callers validate the
	// output against the template guard before using it.
	Polish(ctx context.Context, question, brief string) (string, error)

	// SummariseDocuments answers the question from extracted document
	// text, staying grounded in the supplied content.
	SummariseDocuments(ctx context.Context, question string, docs []domain.ExtractedText) (string, error)

	// ModelName returns the model identifier for the polish report.
	ModelName() string
}
