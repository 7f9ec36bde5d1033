// Package draftstore persists compiled-request drafts — a template,
// variables, and a render target bundled together — behind a short TTL, so
// a preview and a later print submission can share one saved request
// without the client re-sending the whole payload.
package draftstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	draftFilename     = "draft.msgpack"
	defaultTTLMinutes = 30
	envDraftsDir      = "ZPLGRID_PRINT_DRAFTS_DIR"
	envTTLMinutes     = "ZPLGRID_PRINT_DRAFT_TTL_MINUTES"
	defaultDraftsDir  = "drafts"
)

var draftIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// ErrNotFound is returned by Load when a draft does not exist, was never
// created, or has expired.
var ErrNotFound = errors.New("draftstore: draft not found")

// Entry is one saved draft. Template is kept as raw JSON bytes rather than
// a parsed *template.Document: a draft is an opaque compile request, and
// re-parsing on Load keeps this package decoupled from template package
// versioning.
type Entry struct {
	DraftID   string            `msgpack:"draft_id"`
	CreatedAt time.Time         `msgpack:"created_at"`
	ExpiresAt time.Time         `msgpack:"expires_at"`
	Template  json.RawMessage   `msgpack:"template"`
	Variables map[string]string `msgpack:"variables"`
	Target    TargetInput       `msgpack:"target"`
	Debug     bool              `msgpack:"debug"`
}

// TargetInput mirrors the render target fields a client submits alongside
// a template, kept independent of template.Target so this package has no
// import-time dependency on the template package's internal shape.
type TargetInput struct {
	WidthMM   float64 `msgpack:"width_mm"`
	HeightMM  float64 `msgpack:"height_mm"`
	DPI       int     `msgpack:"dpi"`
	OriginXMM float64 `msgpack:"origin_x_mm"`
	OriginYMM float64 `msgpack:"origin_y_mm"`
}

// Store is a directory of one subdirectory per draft, each holding a
// single msgpack-encoded draft.msgpack file.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New returns a Store rooted at dir. The directory is created lazily on
// first Save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// NewFromEnv returns a Store rooted at the directory named by
// ZPLGRID_PRINT_DRAFTS_DIR, defaulting to "drafts".
func NewFromEnv() *Store {
	dir := os.Getenv(envDraftsDir)
	if dir == "" {
		dir = defaultDraftsDir
	}
	return New(dir)
}

func ttlMinutes() int {
	raw := os.Getenv(envTTLMinutes)
	if raw == "" {
		return defaultTTLMinutes
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultTTLMinutes
	}
	if v < 0 {
		return 0
	}
	return v
}

func (s *Store) ensureDir() error {
	return os.MkdirAll(s.dir, 0o755)
}

// Save writes a new draft and returns its entry, including the assigned
// draft_id, created_at, and expires_at. It opportunistically sweeps
// expired drafts first, same as the draft it is about to write.
func (s *Store) Save(template json.RawMessage, variables map[string]string, target TargetInput, debug bool) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	s.cleanupExpiredLocked()

	draftID, err := s.newDraftIDLocked()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	entry := &Entry{
		DraftID:   draftID,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(ttlMinutes()) * time.Minute),
		Template:  template,
		Variables: variables,
		Target:    target,
		Debug:     debug,
	}

	dirPath := filepath.Join(s.dir, draftID)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return nil, err
	}
	if err := writeDraftAtomic(filepath.Join(dirPath, draftFilename), entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Load reads a draft by id. It returns ErrNotFound for an unknown,
// malformed-id, or expired draft, lazily deleting the expired directory on
// the way out.
func (s *Store) Load(draftID string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	s.cleanupExpiredLocked()

	if !draftIDPattern.MatchString(draftID) {
		return nil, ErrNotFound
	}
	dirPath := filepath.Join(s.dir, draftID)
	data, err := os.ReadFile(filepath.Join(dirPath, draftFilename))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	if !time.Now().UTC().Before(entry.ExpiresAt) {
		os.RemoveAll(dirPath)
		return nil, ErrNotFound
	}
	return &entry, nil
}

func (s *Store) newDraftIDLocked() (string, error) {
	for {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")
		if _, err := os.Stat(filepath.Join(s.dir, id)); os.IsNotExist(err) {
			return id, nil
		}
	}
}

func (s *Store) cleanupExpiredLocked() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	now := time.Now().UTC()
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dirPath := filepath.Join(s.dir, e.Name())
		data, err := os.ReadFile(filepath.Join(dirPath, draftFilename))
		if err != nil {
			continue
		}
		var entry Entry
		if err := msgpack.Unmarshal(data, &entry); err != nil {
			continue
		}
		if !now.Before(entry.ExpiresAt) {
			os.RemoveAll(dirPath)
		}
	}
}

func writeDraftAtomic(path string, entry *Entry) error {
	data, err := msgpack.Marshal(entry)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".draft-*.tmp")
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
	return os.Rename(tmpPath, path)
}
