package csv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sitrep/internal/core/domain"
)

func TestNormalise(t *testing.T) {
	ctx := context.Background()

	t.Run("rows become tab-separated lines", func(t *testing.T) {
		raw := &domain.RawFile{
			Name:      "renewals.csv",
			Extension: ".csv",
			Content:   []byte("account,amount\nGlobex,240000\nInitech,80000\n"),
		}

		result, err := New().Normalise(ctx, raw)

		require.NoError(t, err)
		assert.Equal(t, "account\tamount\nGlobex\t240000\nInitech\t80000", result.Text)
		assert.Equal(t, "renewals", result.Title)
	})

	t.Run("quoted cells with commas survive", func(t *testing.T) {
		raw := &domain.RawFile{
			Name:      "notes.csv",
			Extension: ".csv",
			Content:   []byte("account,note\nGlobex,\"at risk, renewal due\"\n"),
		}

		result, err := New().Normalise(ctx, raw)

		require.NoError(t, err)
		assert.Contains(t, result.Text, "at risk, renewal due")
	})

	t.Run("tsv uses tab delimiter", func(t *testing.T) {
		raw := &domain.RawFile{
			Name:      "export.tsv",
			Extension: ".tsv",
			Content:   []byte("a\tb\n1\t2\n"),
		}

		result, err := New().Normalise(ctx, raw)

		require.NoError(t, err)
		assert.Equal(t, "a\tb\n1\t2", result.Text)
	})

	t.Run("ragged rows are tolerated", func(t *testing.T) {
		raw := &domain.RawFile{
			Name:      "ragged.csv",
			Extension: ".csv",
			Content:   []byte("a,b,c\n1,2\n"),
		}

		_, err := New().Normalise(ctx, raw)
		require.NoError(t, err)
	})

	t.Run("empty file is unreadable", func(t *testing.T) {
		_, err := New().Normalise(ctx, &domain.RawFile{Name: "empty.csv", Extension: ".csv"})
		assert.ErrorIs(t, err, domain.ErrUnreadable)
	})

	t.Run("nil document is invalid input", func(t *testing.T) {
		_, err := New().Normalise(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
