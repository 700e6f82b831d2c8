package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sitrep/internal/core/domain"
)

func rawTxt(text string) *domain.RawFile {
	return &domain.RawFile{Name: "note.txt", Extension: ".txt", Content: []byte(text)}
}

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry(nil)

	t.Run("covers the supported allowlist", func(t *testing.T) {
		for _, ext := range []string{".txt", ".csv", ".docx", ".xlsx", ".pdf"} {
			_, ok := reg.ForExtension(ext)
			assert.True(t, ok, ext)
		}
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		_, ok := reg.ForExtension(".DOCX")
		assert.True(t, ok)
	})

	t.Run("unknown extension misses", func(t *testing.T) {
		_, ok := reg.ForExtension(".exe")
		assert.False(t, ok)
	})

	t.Run("extensions are sorted", func(t *testing.T) {
		exts := reg.Extensions()
		require.NotEmpty(t, exts)
		for i := 1; i < len(exts); i++ {
			assert.LessOrEqual(t, exts[i-1], exts[i])
		}
	})

	t.Run("plaintext normaliser is wired", func(t *testing.T) {
		n, ok := reg.ForExtension(".txt")
		require.True(t, ok)

		// The registry hands back a working normaliser, not just a name.
		result, err := n.Normalise(context.Background(), rawTxt("hello"))
		require.NoError(t, err)
		assert.Equal(t, "hello", result.Text)
	})
}
