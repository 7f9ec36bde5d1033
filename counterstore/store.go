// Package counterstore persists the scoped print counters macros read and
// the print path increments: global, daily, printer, printer+daily,
// template, template+daily. Reads are snapshot reads; only a successful
// print submission commits an increment.
package counterstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Store is a file-backed counter table keyed by an opaque scope string.
// Daily scopes fold the date into the key itself (e.g. "daily:2026-08-06"),
// so a new day naturally starts that key at zero without special-casing
// resets here.
type Store struct {
	path string

	mu       sync.Mutex // guards the in-memory table and the file
	keyLocks sync.Map   // per-key *sync.Mutex, for Commit serialization
	table    map[string]int
	loaded   bool
}

// New returns a Store backed by the JSON file at path. The file is created
// on first Commit if it does not already exist.
func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) load() error {
	if s.loaded {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.table = map[string]int{}
		s.loaded = true
		return nil
	}
	if err != nil {
		return err
	}
	table := map[string]int{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &table); err != nil {
			return err
		}
	}
	s.table = table
	s.loaded = true
	return nil
}

// Peek returns the current value of scope without modifying it. Unknown
// scopes read as 0.
func (s *Store) Peek(scope string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return 0, err
	}
	return s.table[scope], nil
}

// Commit increments scope and returns the new value. Commits on the same
// scope are serialized by a per-key lock; the store-wide lock is also held
// while the table is updated and written, so commits on different scopes
// run one at a time as well.
func (s *Store) Commit(scope string) (int, error) {
	lockAny, _ := s.keyLocks.LoadOrStore(scope, &sync.Mutex{})
	keyLock := lockAny.(*sync.Mutex)
	keyLock.Lock()
	defer keyLock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return 0, err
	}
	s.table[scope]++
	value := s.table[scope]
	if err := s.persist(); err != nil {
		return 0, err
	}
	return value, nil
}

func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.table, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".counters-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.path)
}
