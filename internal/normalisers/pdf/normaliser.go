// Package pdf extracts text from PDF documents via the poppler pdftotext
// tool. PDF parsing is deliberately not reimplemented; the external binary
// is battle-tested and ubiquitous.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// ErrPDFToolNotFound indicates the pdftotext binary is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// maxTitleLineLength caps how long a first line may be to count as a title.
const maxTitleLineLength = 200

// Normaliser handles PDF documents by shelling out to pdftotext.
type Normaliser struct {
	runner driven.CommandRunner
}

// execRunner runs commands for real.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// New creates a PDF normaliser backed by the real pdftotext binary.
func New() *Normaliser {
	return &Normaliser{runner: execRunner{}}
}

// NewWithRunner creates a PDF normaliser with an injected command runner.
// A nil runner selects the real one.
func NewWithRunner(runner driven.CommandRunner) *Normaliser {
	if runner == nil {
		return New()
	}
	return &Normaliser{runner: runner}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".pdf"}
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions tells an operator how to install the tool.
func InstallInstructions() string {
	return "pdftotext is required for PDF extraction: " +
		"macOS `brew install poppler`, Debian/Ubuntu `apt install poppler-utils`"
}

// Normalise writes the bytes to a temporary file and extracts text with
// pdftotext.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawFile) (*domain.ExtractedText, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	tmp, err := os.CreateTemp("", "sitrep-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw.Content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	// "-" sends extracted text to stdout.
	output, err := n.runner.Run(ctx, "pdftotext", "-layout", tmp.Name(), "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	text := strings.TrimSpace(string(output))
	if text == "" {
		return nil, domain.ErrUnreadable
	}

	return &domain.ExtractedText{
		Title: extractTitle(text, raw.Name),
		Text:  text,
	}, nil
}

// extractTitle uses the first short non-empty line of the extracted text,
// falling back to the file name.
func extractTitle(content, name string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) > maxTitleLineLength {
			continue
		}
		return line
	}

	filename := filepath.Base(name)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
