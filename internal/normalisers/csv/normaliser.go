// Package csv extracts text from comma-separated value files.
package csv

import (
	"bytes"
	"context"
	enccsv "encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles CSV documents. Rows become lines with tab-separated
// cells so the output reads naturally in a prompt.
type Normaliser struct{}

// New creates a new CSV normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".csv", ".tsv"}
}

// Normalise converts CSV rows to extracted text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawFile) (*domain.ExtractedText, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader := enccsv.NewReader(bytes.NewReader(raw.Content))
	if strings.EqualFold(raw.Extension, ".tsv") {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1

	var b strings.Builder
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.ErrUnreadable
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Join(record, "\t"))
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return nil, domain.ErrUnreadable
	}

	return &domain.ExtractedText{
		Title: extractTitle(raw.Name),
		Text:  text,
	}, nil
}

// extractTitle derives a human-readable title from the file name.
func extractTitle(name string) string {
	filename := filepath.Base(name)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
