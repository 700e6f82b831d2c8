package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	r := NewResolver()

	t.Run("returns set values", func(t *testing.T) {
		t.Setenv("SITREP_TEST_KEY", "value")

		v, ok := r.Lookup("SITREP_TEST_KEY")

		assert.True(t, ok)
		assert.Equal(t, "value", v)
	})

	t.Run("treats unset keys as missing", func(t *testing.T) {
		_, ok := r.Lookup("SITREP_TEST_NEVER_SET")
		assert.False(t, ok)
	})

	t.Run("treats blank values as missing", func(t *testing.T) {
		t.Setenv("SITREP_TEST_BLANK", "   ")

		_, ok := r.Lookup("SITREP_TEST_BLANK")

		assert.False(t, ok)
	})
}
