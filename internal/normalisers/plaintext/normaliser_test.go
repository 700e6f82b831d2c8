package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
)

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func TestExtensions(t *testing.T) {
	n := New()
	assert.Contains(t, n.Extensions(), ".txt")
}

func TestNormalise(t *testing.T) {
	ctx := context.Background()

	t.Run("extracts text and derives title", func(t *testing.T) {
		raw := &domain.RawFile{
			Name:    "q3_renewal-notes.txt",
			Content: []byte("  Renewal at risk.\nCustomer unhappy.  \n"),
		}

		result, err := New().Normalise(ctx, raw)

		require.NoError(t, err)
		assert.Equal(t, "Renewal at risk.\nCustomer unhappy.", result.Text)
		assert.Equal(t, "q3 renewal notes", result.Title)
	})

	t.Run("nil document is invalid input", func(t *testing.T) {
		_, err := New().Normalise(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("empty content is unreadable", func(t *testing.T) {
		_, err := New().Normalise(ctx, &domain.RawFile{Name: "x.txt", Content: []byte("   \n")})
		assert.ErrorIs(t, err, domain.ErrUnreadable)
	})

	t.Run("binary garbage is unreadable", func(t *testing.T) {
		_, err := New().Normalise(ctx, &domain.RawFile{Name: "x.txt", Content: []byte{0xff, 0xfe, 0x00, 0x80}})
		assert.ErrorIs(t, err, domain.ErrUnreadable)
	})
}
