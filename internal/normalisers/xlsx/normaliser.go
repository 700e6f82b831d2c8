// Package xlsx extracts text from Excel workbooks.
//
// Workbooks are ZIP archives of SpreadsheetML parts. Cell text mostly lives
// in a shared-string table that cells reference by index, so extraction
// resolves xl/sharedStrings.xml first and then walks every worksheet's rows.
package xlsx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles XLSX workbooks. Rows become lines with tab-separated
// cells, sheets are concatenated in name order.
type Normaliser struct{}

// New creates a new XLSX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".xlsx"}
}

// Normalise extracts cell text from every worksheet.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawFile) (*domain.ExtractedText, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, domain.ErrUnreadable
	}

	shared := readSharedStrings(reader)

	var sheets []string
	for _, file := range reader.File {
		if strings.HasPrefix(file.Name, "xl/worksheets/") && strings.HasSuffix(file.Name, ".xml") {
			sheets = append(sheets, file.Name)
		}
	}
	sort.Strings(sheets)

	var b strings.Builder
	for _, name := range sheets {
		text := readSheetText(reader, name, shared)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
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

// sharedStringsXML represents xl/sharedStrings.xml.
type sharedStringsXML struct {
	Items []sharedItem `xml:"si"`
}

// sharedItem holds either a direct text node or rich-text runs.
type sharedItem struct {
	Text string      `xml:"t"`
	Runs []sharedRun `xml:"r"`
}

type sharedRun struct {
	Text string `xml:"t"`
}

func (s sharedItem) value() string {
	if len(s.Runs) == 0 {
		return s.Text
	}
	var b strings.Builder
	for _, r := range s.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// readSharedStrings resolves the shared-string table, which may be absent.
func readSharedStrings(reader *zip.Reader) []string {
	content := readZipFile(reader, "xl/sharedStrings.xml")
	if content == nil {
		return nil
	}

	var sst sharedStringsXML
	if err := xml.Unmarshal(content, &sst); err != nil {
		return nil
	}

	values := make([]string, len(sst.Items))
	for i, item := range sst.Items {
		values[i] = item.value()
	}
	return values
}

// worksheetXML represents one xl/worksheets/sheetN.xml part.
type worksheetXML struct {
	Rows []sheetRow `xml:"sheetData>row"`
}

type sheetRow struct {
	Cells []sheetCell `xml:"c"`
}

type sheetCell struct {
	Type   string      `xml:"t,attr"`
	Value  string      `xml:"v"`
	Inline *inlineText `xml:"is"`
}

type inlineText struct {
	Text string `xml:"t"`
}

// resolve renders one cell as text, looking shared strings up by index.
func (c sheetCell) resolve(shared []string) string {
	switch c.Type {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		if c.Inline == nil {
			return ""
		}
		return c.Inline.Text
	case "b":
		if strings.TrimSpace(c.Value) == "1" {
			return "TRUE"
		}
		return "FALSE"
	default:
		return c.Value
	}
}

// readSheetText renders one worksheet, rows as lines, cells tab-separated.
func readSheetText(reader *zip.Reader, name string, shared []string) string {
	content := readZipFile(reader, name)
	if content == nil {
		return ""
	}

	var sheet worksheetXML
	if err := xml.Unmarshal(content, &sheet); err != nil {
		return ""
	}

	var b strings.Builder
	for i, row := range sheet.Rows {
		if i > 0 {
			b.WriteString("\n")
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.resolve(shared)
		}
		b.WriteString(strings.Join(cells, "\t"))
	}
	return strings.TrimSpace(b.String())
}

// readZipFile returns a named archive member's bytes, or nil when absent.
func readZipFile(reader *zip.Reader, name string) []byte {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil
		}
		return content
	}
	return nil
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
