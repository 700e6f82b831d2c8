package normalisers

import (
	"sort"
	"strings"

	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
	"github.com/custodia-labs/sitrep/internal/normalisers/csv"
	"github.com/custodia-labs/sitrep/internal/normalisers/docx"
	"github.com/custodia-labs/sitrep/internal/normalisers/pdf"
	"github.com/custodia-labs/sitrep/internal/normalisers/plaintext"
	"github.com/custodia-labs/sitrep/internal/normalisers/xlsx"
)

// Registry selects a normaliser by file extension.
type Registry struct {
	byExt map[string]driven.Normaliser
}

// NewRegistry builds a registry from the given normalisers. A later
// normaliser claiming an already-registered extension wins.
func NewRegistry(ns ...driven.Normaliser) *Registry {
	r := &Registry{byExt: make(map[string]driven.Normaliser)}
	for _, n := range ns {
		for _, ext := range n.Extensions() {
			r.byExt[strings.ToLower(ext)] = n
		}
	}
	return r
}

// DefaultRegistry wires every built-in normaliser. The runner is used by
// formats that shell out; nil selects the real command runner.
func DefaultRegistry(runner driven.CommandRunner) *Registry {
	return NewRegistry(
		plaintext.New(),
		csv.New(),
		docx.New(),
		xlsx.New(),
		pdf.NewWithRunner(runner),
	)
}

// ForExtension returns the normaliser for a lower-cased extension
// (including the dot), or false when the format is unsupported.
func (r *Registry) ForExtension(ext string) (driven.Normaliser, bool) {
	n, ok := r.byExt[strings.ToLower(ext)]
	return n, ok
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
