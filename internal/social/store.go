package social

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/finpulse/finpulse/pkg/models"
)

// Store persists the social snapshot as a single JSON file. Each ingest
// cycle overwrites the whole file atomically; readers never observe a
// partially written snapshot.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the current snapshot. A missing or corrupt file yields an
// empty snapshot so a bad disk state never blocks the next ingest.
func (s *Store) Load() models.SocialSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() models.SocialSnapshot {
	empty := models.SocialSnapshot{
		Symbols: map[string]models.SymbolReport{},
		History: map[string][]models.HistoryEntry{},
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return empty
	}
	var snap models.SocialSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return empty
	}
	if snap.Symbols == nil {
		snap.Symbols = map[string]models.SymbolReport{}
	}
	if snap.History == nil {
		snap.History = map[string][]models.HistoryEntry{}
	}
	return snap
}

// Save writes the snapshot atomically: temp file in the same directory,
// then rename over the target.
func (s *Store) Save(snap models.SocialSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode social snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace social snapshot: %w", err)
	}
	return nil
}
