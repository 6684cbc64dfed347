package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Store is the single source of truth. Every handler performs its whole
// read-modify-write inside one critical section; there is no finer locking.
// After each successful mutation the entire state is mirrored to one JSON
// file, which is reloaded at process start.
type Store struct {
	mu     sync.Mutex
	data   Data
	path   string
	logger *zap.Logger
}

// New creates a store snapshotting to path, loading any existing snapshot.
func New(path string, logger *zap.Logger) (*Store, error) {
	s := &Store{
		data:   emptyData(),
		path:   path,
		logger: logger,
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return s, nil
}

// View runs fn against the current state under the lock. fn must not mutate.
func (s *Store) View(fn func(d *Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

// Update runs fn against the state under the lock and snapshots to disk if
// fn succeeds. A failing fn must leave the state untouched; nothing is
// persisted for it.
func (s *Store) Update(fn func(d *Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(&s.data); err != nil {
		return err
	}
	s.save()
	return nil
}

// Reset drops all state and persists the empty snapshot. Test isolation only.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = emptyData()
	s.save()
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return fmt.Errorf("decode %s: %w", s.path, err)
	}
	s.data = d
	return nil
}

// save is best effort: the in-memory state stays authoritative and a failed
// write must not fail the request that caused it.
func (s *Store) save() {
	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		s.logger.Error("encode snapshot", zap.Error(err))
		return
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Error("create snapshot dir", zap.Error(err))
		return
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		s.logger.Error("write snapshot", zap.Error(err))
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.logger.Error("replace snapshot", zap.Error(err))
	}
}
