// Package file is a TOML-backed settings store with hot reload.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
)

// Ensure Store implements the settings port.
var _ driven.SettingsSource = (*Store)(nil)

// Settings is the on-disk tunables file. Credentials never live here; they
// come from the environment.
type Settings struct {
	Server    ServerSettings   `toml:"server"`
	Brief     BriefSettings    `toml:"brief"`
	CRM       CRMSettings      `toml:"crm"`
	Documents DocumentSettings `toml:"documents"`
}

// ServerSettings configure the HTTP server.
type ServerSettings struct {
	// Listen is the address the HTTP server binds to.
	Listen string `toml:"listen"`
}

// BriefSettings configure the risk thresholds. These are re-read per
// request, so edits to the file take effect without a restart.
type BriefSettings struct {
	HighPriorityIncidents int     `toml:"high_priority_incidents"`
	AtRiskRevenue         float64 `toml:"at_risk_revenue"`
}

// CRMSettings configure the at-risk deal policy.
type CRMSettings struct {
	AtRiskProbabilityBelow float64 `toml:"at_risk_probability_below"`
	AtRiskCloseWithinDays  int     `toml:"at_risk_close_within_days"`
}

// DocumentSettings configure the document search.
type DocumentSettings struct {
	Extensions      []string `toml:"extensions"`
	MaxFiles        int      `toml:"max_files"`
	MaxCharsPerFile int      `toml:"max_chars_per_file"`

	// SeedFilenames are retried one by one when the broad search
	// matches nothing. Empty disables the fallback.
	SeedFilenames []string `toml:"seed_filenames"`
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	policy := domain.DefaultAtRiskPolicy()
	thresholds := domain.DefaultThresholds()
	return Settings{
		Server: ServerSettings{Listen: ":8080"},
		Brief: BriefSettings{
			HighPriorityIncidents: thresholds.HighPriorityIncidents,
			AtRiskRevenue:         thresholds.AtRiskRevenue,
		},
		CRM: CRMSettings{
			AtRiskProbabilityBelow: policy.ProbabilityBelow,
			AtRiskCloseWithinDays:  policy.CloseWithinDays,
		},
		Documents: DocumentSettings{
			Extensions:      []string{".txt", ".csv", ".docx", ".xlsx", ".pdf"},
			MaxFiles:        3,
			MaxCharsPerFile: 8000,
		},
	}
}

// Store loads Settings from a TOML file and serves them concurrently. A
// reload swaps the whole Settings value under the lock, so readers never
// observe a half-applied file.
type Store struct {
	mu       sync.RWMutex
	path     string
	settings Settings
	log      *zap.Logger
}

// NewStore creates a settings store. An empty path serves the defaults
// and disables watching; a missing file is not an error.
func NewStore(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		path:     path,
		settings: DefaultSettings(),
		log:      log,
	}
	if path != "" {
		if err := s.load(); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}
	return s, nil
}

// load reads and parses the file, then swaps the settings atomically.
// Unset fields keep their defaults.
func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	next := DefaultSettings()
	if err := toml.Unmarshal(raw, &next); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.settings = next
	s.mu.Unlock()
	return nil
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// BriefThresholds returns the current risk thresholds.
func (s *Store) BriefThresholds() domain.Thresholds {
	cur := s.Settings()
	return domain.Thresholds{
		HighPriorityIncidents: cur.Brief.HighPriorityIncidents,
		AtRiskRevenue:         cur.Brief.AtRiskRevenue,
	}
}

// AtRiskPolicy returns the configured deal policy.
func (s *Store) AtRiskPolicy() domain.AtRiskPolicy {
	cur := s.Settings()
	return domain.AtRiskPolicy{
		ProbabilityBelow: cur.CRM.AtRiskProbabilityBelow,
		CloseWithinDays:  cur.CRM.AtRiskCloseWithinDays,
	}
}

// Watch reloads the file whenever it changes, until ctx ends. The parent
// directory is watched rather than the file itself so editors that replace
// the file (rename plus create) keep triggering reloads.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(s.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := s.load(); err != nil {
					// Bad edits keep the last good settings.
					s.log.Warn("settings reload failed", zap.Error(err))
					continue
				}
				s.log.Info("settings reloaded", zap.String("path", s.path))

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn("settings watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
