// File path: internal/cases/store.go
package cases

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/meditrainhq/meditrain/internal/common"
)

// ErrNotFound reports an unknown case ID. Callers recover locally; a miss is
// never fatal.
var ErrNotFound = errors.New("case not found")

// Store reads authored case records from a directory of <id>.json files. The
// directory is the source of truth; records are re-read per access so authors
// can drop in new cases without a restart.
type Store struct {
	dir string
}

// Config holds the case store settings.
type Config struct {
	Dir string
}

// LoadConfig reads the store configuration from the environment.
func LoadConfig() Config {
	cfg := Config{Dir: "cases"}
	if dir := strings.TrimSpace(os.Getenv("MEDITRAIN_CASES_DIR")); dir != "" {
		cfg.Dir = dir
	}
	return cfg
}

// NewStore constructs a Store rooted at the given directory.
func NewStore(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, errors.New("cases directory required")
	}
	return &Store{dir: cfg.Dir}, nil
}

// Load returns the record with the given ID or ErrNotFound. The miss is
// logged at warning level and never panics the caller.
func (s *Store) Load(id string) (*Record, error) {
	logger := common.Logger()
	cleaned := strings.TrimSpace(id)
	if cleaned == "" || cleaned != filepath.Base(cleaned) {
		logger.Warn("cases: rejecting malformed case id", "id", id)
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	path := filepath.Join(s.dir, cleaned+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("cases: case not found", "id", cleaned, "path", path)
			return nil, fmt.Errorf("%w: %q", ErrNotFound, cleaned)
		}
		return nil, fmt.Errorf("read case %q: %w", cleaned, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse case %q: %w", cleaned, err)
	}
	rec.ID = cleaned
	return &rec, nil
}

// LoadAll scans the directory and returns every parseable record, sorted by
// ID. Parse failures skip the offending file with a warning rather than
// failing the whole load; the training pipeline filters usability itself.
func (s *Store) LoadAll() ([]Record, error) {
	logger := common.Logger()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("scan cases directory %q: %w", s.dir, err)
	}
	var records []Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		rec, err := s.Load(id)
		if err != nil {
			logger.Warn("cases: skipping unreadable case file", "file", entry.Name(), "error", err)
			continue
		}
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// List returns case-picker summaries for every readable case.
func (s *Store) List() ([]Summary, error) {
	records, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(records))
	for _, rec := range records {
		title := rec.Title
		if title == "" {
			title = "Untitled Case"
		}
		summaries = append(summaries, Summary{ID: rec.ID, Title: title})
	}
	return summaries, nil
}
