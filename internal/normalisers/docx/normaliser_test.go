package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sitrep/internal/core/domain"
)

// buildDocx assembles a minimal DOCX archive in memory.
func buildDocx(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const documentXMLBody = `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>Escalation summary for Globex.</t></r></p>
    <p><r><t>Renewal is </t></r><r><t>at risk.</t></r></p>
  </body>
</document>`

func TestNormalise(t *testing.T) {
	ctx := context.Background()

	t.Run("extracts paragraphs joined by newlines", func(t *testing.T) {
		content := buildDocx(t, map[string]string{
			"word/document.xml": documentXMLBody,
		})
		raw := &domain.RawFile{Name: "escalation_summary.docx", Extension: ".docx", Content: content}

		result, err := New().Normalise(ctx, raw)

		require.NoError(t, err)
		assert.Equal(t, "Escalation summary for Globex.\nRenewal is at risk.", result.Text)
		assert.Equal(t, "escalation summary", result.Title)
	})

	t.Run("renders table rows as tab-separated lines", func(t *testing.T) {
		content := buildDocx(t, map[string]string{
			"word/document.xml": `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>Impact overview.</t></r></p>
    <tbl>
      <tr><tc><p><r><t>Account</t></r></p></tc><tc><p><r><t>ARR</t></r></p></tc></tr>
      <tr><tc><p><r><t>Globex</t></r></p></tc><tc><p><r><t>240000</t></r></p></tc></tr>
    </tbl>
  </body>
</document>`,
		})
		raw := &domain.RawFile{Name: "impact.docx", Extension: ".docx", Content: content}

		result, err := New().Normalise(ctx, raw)

		require.NoError(t, err)
		assert.Equal(t, "Impact overview.\nAccount\tARR\nGlobex\t240000", result.Text)
	})

	t.Run("prefers core properties title", func(t *testing.T) {
		content := buildDocx(t, map[string]string{
			"word/document.xml": documentXMLBody,
			"docProps/core.xml": `<?xml version="1.0"?><coreProperties><title>Globex Escalation</title></coreProperties>`,
		})
		raw := &domain.RawFile{Name: "whatever.docx", Extension: ".docx", Content: content}

		result, err := New().Normalise(ctx, raw)

		require.NoError(t, err)
		assert.Equal(t, "Globex Escalation", result.Title)
	})

	t.Run("non-zip bytes are unreadable", func(t *testing.T) {
		raw := &domain.RawFile{Name: "fake.docx", Extension: ".docx", Content: []byte("not a zip")}

		_, err := New().Normalise(ctx, raw)
		assert.ErrorIs(t, err, domain.ErrUnreadable)
	})

	t.Run("archive without document.xml is unreadable", func(t *testing.T) {
		content := buildDocx(t, map[string]string{"other.xml": "<x/>"})
		raw := &domain.RawFile{Name: "odd.docx", Extension: ".docx", Content: content}

		_, err := New().Normalise(ctx, raw)
		assert.ErrorIs(t, err, domain.ErrUnreadable)
	})

	t.Run("nil document is invalid input", func(t *testing.T) {
		_, err := New().Normalise(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
