package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".pdf"}, New().Extensions())
}

func TestNormalise_NilDocument(t *testing.T) {
	_, err := NewWithRunner(&mockRunner{}).Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_WithMockRunner(t *testing.T) {
	runner := &mockRunner{output: []byte("Renewal Review\n\nGlobex renewal is at risk.\n")}
	raw := &domain.RawFile{
		Name:      "renewal_review.pdf",
		Extension: ".pdf",
		Content:   []byte("%PDF-1.4 fake pdf content"),
	}

	result, err := NewWithRunner(runner).Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "Renewal Review", result.Title)
	assert.Contains(t, result.Text, "Globex renewal is at risk.")
}

func TestNormalise_RunnerError(t *testing.T) {
	runner := &mockRunner{err: errors.New("pdftotext crashed")}
	raw := &domain.RawFile{Name: "x.pdf", Extension: ".pdf", Content: []byte("%PDF-1.4")}

	_, err := NewWithRunner(runner).Normalise(context.Background(), raw)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext failed")
}

func TestNormalise_EmptyOutput(t *testing.T) {
	runner := &mockRunner{output: []byte("  \n ")}
	raw := &domain.RawFile{Name: "scan.pdf", Extension: ".pdf", Content: []byte("%PDF-1.4")}

	_, err := NewWithRunner(runner).Normalise(context.Background(), raw)

	assert.ErrorIs(t, err, domain.ErrUnreadable)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		file     string
		expected string
	}{
		{
			name:     "first line as title",
			content:  "Document Title\n\nSome content here.",
			file:     "doc.pdf",
			expected: "Document Title",
		},
		{
			name:     "skip empty lines",
			content:  "\n\n\nActual Title\nContent",
			file:     "doc.pdf",
			expected: "Actual Title",
		},
		{
			name:     "fallback to filename",
			content:  "",
			file:     "my_document.pdf",
			expected: "my document",
		},
		{
			name:     "skip very long first line",
			content:  string(make([]byte, 250)) + "\nShort Title\nContent",
			file:     "doc.pdf",
			expected: "Short Title",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractTitle(tc.content, tc.file))
		})
	}
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
	assert.Contains(t, InstallInstructions(), "poppler")
}
