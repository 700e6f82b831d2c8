package sharepoint

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
	"github.com/custodia-labs/sitrep/internal/normalisers"
)

// Ensure Connector implements the source port.
var _ driven.DocumentSource = (*Connector)(nil)

const (
	// DefaultMaxFiles caps how many matched files feed one insight.
	DefaultMaxFiles = 3

	// DefaultMaxCharsPerFile caps the extracted text kept per file.
	DefaultMaxCharsPerFile = 8000

	// requestsPerSecond paces Graph calls below the tenant throttle.
	requestsPerSecond = 10
)

// DefaultExtensions returns the built-in extension allowlist.
func DefaultExtensions() []string {
	return []string{".txt", ".csv", ".docx", ".xlsx", ".pdf"}
}

// Options are the search tunables, fixed at construction.
type Options struct {
	// Extensions is the allowlist of file extensions, dot included.
	Extensions []string

	// MaxFiles caps how many files feed one insight.
	MaxFiles int

	// MaxCharsPerFile caps the extracted text kept per file.
	MaxCharsPerFile int

	// SeedFilenames are re-queried one by one when the broad search
	// matches nothing usable. Empty disables the fallback.
	SeedFilenames []string
}

// DefaultOptions returns the built-in search tunables.
func DefaultOptions() Options {
	return Options{
		Extensions:      DefaultExtensions(),
		MaxFiles:        DefaultMaxFiles,
		MaxCharsPerFile: DefaultMaxCharsPerFile,
	}
}

// Connector searches a document library and extracts text from matched
// files: site discovery, library resolution, keyword search, one level of
// folder expansion, download and normalisation.
type Connector struct {
	creds      driven.CredentialSource
	opts       Options
	registry   *normalisers.Registry
	summariser driven.Summariser
	log        *zap.Logger
	limit      *rate.Limiter

	// allowed is the lower-cased extension set derived from opts.
	allowed map[string]struct{}

	// authority and graphBase are swapped for test servers.
	authority string
	graphBase string
}

// New creates a SharePoint connector. The summariser is optional; when nil
// the insight carries capped extracted text instead of a focused answer.
func New(creds driven.CredentialSource, opts Options, registry *normalisers.Registry, summariser driven.Summariser, log *zap.Logger) *Connector {
	if log == nil {
		log = zap.NewNop()
	}
	if registry == nil {
		registry = normalisers.DefaultRegistry(nil)
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions()
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultMaxFiles
	}
	if opts.MaxCharsPerFile <= 0 {
		opts.MaxCharsPerFile = DefaultMaxCharsPerFile
	}

	allowed := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	return &Connector{
		creds:      creds,
		opts:       opts,
		registry:   registry,
		summariser: summariser,
		log:        log,
		limit:      rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		allowed:    allowed,
		authority:  defaultAuthority,
		graphBase:  defaultGraphBase,
	}
}

// Fetch searches the library for material relevant to the question. All
// failures collapse into the result; this method never returns an error.
func (c *Connector) Fetch(ctx context.Context, question string) domain.DocumentResult {
	cfg, err := LoadConfig(c.creds)
	if err != nil {
		return domain.DocumentFailure(err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	insight, err := c.fetchInsight(ctx, cfg, question)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = errors.New("SharePoint request timed out")
		}
		c.log.Warn("sharepoint fetch failed", zap.Error(err))
		return domain.DocumentFailure(err)
	}

	c.log.Debug("sharepoint fetch succeeded",
		zap.Int("files", len(insight.Files)),
		zap.Bool("summarised", insight.SummarisedByLLM))
	return domain.DocumentSuccess(insight)
}

func (c *Connector) fetchInsight(ctx context.Context, cfg *Config, question string) (*domain.DocumentInsight, error) {
	g := newGraphClient(ctx, cfg, c.authority, c.graphBase, c.limit)

	target, err := c.findSite(ctx, g, cfg.SiteName)
	if err != nil {
		return nil, err
	}
	library, err := c.findLibrary(ctx, g, target, cfg.LibraryName)
	if err != nil {
		return nil, err
	}

	query := searchQuery(question)
	files, err := c.searchFiles(ctx, g, library.ID, query)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		files, err = c.seededFiles(ctx, g, library.ID)
		if err != nil {
			return nil, err
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files in %q matched %q", domain.ErrNoMatches, library.Name, query)
	}

	texts, summaries, err := c.extract(ctx, g, library.ID, files)
	if err != nil {
		return nil, err
	}

	summary, used := c.summarise(ctx, question, texts)
	return &domain.DocumentInsight{
		Files:           summaries,
		Summary:         summary,
		SummarisedByLLM: used,
	}, nil
}

// findSite resolves the configured site, preferring an exact name match
// over search ranking. An empty name selects the root site.
func (c *Connector) findSite(ctx context.Context, g *graphClient, name string) (*site, error) {
	if name == "" {
		return g.rootSite(ctx)
	}

	sites, err := g.searchSites(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(sites) == 0 {
		return nil, fmt.Errorf("no SharePoint site matched %q", name)
	}
	for i := range sites {
		if strings.EqualFold(sites[i].DisplayName, name) || strings.EqualFold(sites[i].Name, name) {
			return &sites[i], nil
		}
	}
	return &sites[0], nil
}

// findLibrary resolves the document library by name, falling back to the
// site's default library.
func (c *Connector) findLibrary(ctx context.Context, g *graphClient, target *site, name string) (*drive, error) {
	drives, err := g.listDrives(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	if len(drives) == 0 {
		return nil, fmt.Errorf("site %q has no document libraries", target.DisplayName)
	}
	for i := range drives {
		if strings.EqualFold(drives[i].Name, name) {
			return &drives[i], nil
		}
	}
	for i := range drives {
		if drives[i].DriveType == "documentLibrary" {
			return &drives[i], nil
		}
	}
	return &drives[0], nil
}

// searchFiles runs the keyword search and expands folder hits one level,
// keeping allowlisted files up to the configured cap.
func (c *Connector) searchFiles(ctx context.Context, g *graphClient, driveID, query string) ([]driveItem, error) {
	hits, err := g.searchItems(ctx, driveID, query)
	if err != nil {
		return nil, err
	}

	var files []driveItem
	seen := make(map[string]struct{})

	keep := func(item driveItem) {
		if _, dup := seen[item.ID]; dup {
			return
		}
		if item.File == nil || !c.extensionAllowed(item.Name) {
			return
		}
		seen[item.ID] = struct{}{}
		files = append(files, item)
	}

	for _, hit := range hits {
		if len(files) >= c.opts.MaxFiles {
			break
		}
		if hit.Folder == nil {
			keep(hit)
			continue
		}

		children, err := g.childItems(ctx, driveID, hit.ID)
		if err != nil {
			// A folder that cannot be listed costs us its contents,
			// not the whole search.
			c.log.Debug("folder expansion failed",
				zap.String("folder", hit.Name), zap.Error(err))
			continue
		}
		for _, child := range children {
			if len(files) >= c.opts.MaxFiles {
				break
			}
			keep(child)
		}
	}
	return files, nil
}

// seededFiles re-queries each configured seed filename once. This is the
// fallback for when the broad search matches nothing usable.
func (c *Connector) seededFiles(ctx context.Context, g *graphClient, driveID string) ([]driveItem, error) {
	var files []driveItem
	seen := make(map[string]struct{})

	for _, seed := range c.opts.SeedFilenames {
		if len(files) >= c.opts.MaxFiles {
			break
		}
		c.log.Debug("retrying search with seed filename", zap.String("seed", seed))

		hits, err := g.searchItems(ctx, driveID, seed)
		if err != nil {
			return nil, err
		}
		for _, hit := range hits {
			if hit.File == nil || !c.extensionAllowed(hit.Name) {
				continue
			}
			if _, dup := seen[hit.ID]; dup {
				continue
			}
			seen[hit.ID] = struct{}{}
			files = append(files, hit)
			break
		}
	}
	return files, nil
}

// extract downloads and normalises each file, capping the kept text. Files
// that fail to download or normalise are skipped; when every file fails
// the insight is unreadable rather than empty.
func (c *Connector) extract(ctx context.Context, g *graphClient, driveID string, files []driveItem) ([]domain.ExtractedText, []domain.FileSummary, error) {
	texts := make([]domain.ExtractedText, 0, len(files))
	summaries := make([]domain.FileSummary, 0, len(files))
	var lastErr error

	for _, f := range files {
		text, err := c.extractOne(ctx, g, driveID, f)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return nil, nil, err
			}
			c.log.Debug("file extraction failed",
				zap.String("file", f.Name), zap.Error(err))
			lastErr = err
			continue
		}

		capped := capRunes(text.Text, c.opts.MaxCharsPerFile)
		texts = append(texts, domain.ExtractedText{Title: text.Title, Text: capped})
		summaries = append(summaries, domain.FileSummary{
			Name:   f.Name,
			WebURL: f.WebURL,
			Chars:  utf8.RuneCountInString(capped),
		})
	}

	if len(texts) == 0 {
		if lastErr != nil {
			return nil, nil, fmt.Errorf("%w: %d matched files, none readable (last: %v)",
				domain.ErrUnreadable, len(files), lastErr)
		}
		return nil, nil, fmt.Errorf("%w: %d matched files, none readable",
			domain.ErrUnreadable, len(files))
	}
	return texts, summaries, nil
}

func (c *Connector) extractOne(ctx context.Context, g *graphClient, driveID string, f driveItem) (*domain.ExtractedText, error) {
	content, err := g.downloadContent(ctx, driveID, f.ID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(f.Name))
	normaliser, ok := c.registry.ForExtension(ext)
	if !ok {
		return nil, fmt.Errorf("no normaliser for %s", ext)
	}

	raw := &domain.RawFile{
		Name:      f.Name,
		Extension: ext,
		WebURL:    f.WebURL,
		Content:   content,
	}
	if f.Parent != nil {
		raw.Path = f.Parent.Path
	}
	return normaliser.Normalise(ctx, raw)
}

// summarise forwards the extracted text to the summariser when one is
// wired. Any failure falls back to the raw digest so the source still
// reports data it actually has.
func (c *Connector) summarise(ctx context.Context, question string, texts []domain.ExtractedText) (string, bool) {
	if c.summariser == nil {
		return rawDigest(texts), false
	}

	answer, err := c.summariser.SummariseDocuments(ctx, question, texts)
	if err != nil || strings.TrimSpace(answer) == "" {
		c.log.Warn("document summarisation failed, serving extracted text", zap.Error(err))
		return rawDigest(texts), false
	}
	return answer, true
}

// rawDigest concatenates extracted text per file, titled.
func rawDigest(texts []domain.ExtractedText) string {
	var b strings.Builder
	for i, t := range texts {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(t.Title)
		b.WriteString(":\n")
		b.WriteString(t.Text)
	}
	return b.String()
}

func (c *Connector) extensionAllowed(name string) bool {
	_, ok := c.allowed[strings.ToLower(filepath.Ext(name))]
	return ok
}

func capRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
