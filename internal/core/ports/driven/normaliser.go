package driven

import (
	"context"

	"github.com/custodia-labs/sitrep/internal/core/domain"
)

// Normaliser extracts plain text from one document format.
type Normaliser interface {
	// Extensions returns the lower-cased file extensions this normaliser
	// handles, including the dot.
	Extensions() []string

	// Normalise extracts text from the raw file. An empty extraction is
	// an error so unreadable files are reported, not silently skipped.
	Normalise(ctx context.Context, raw *domain.RawFile) (*domain.ExtractedText, error)
}

// CommandRunner executes an external command and returns its stdout.
// It exists so normalisers that shell out (PDF via pdftotext) can be
// tested without the binary installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
