package draftstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveThenLoadRoundTrips(t *testing.T) {
	s := New(t.TempDir())
	tmpl := json.RawMessage(`{"schema_version":1}`)
	vars := map[string]string{"title": "Hello"}
	target := TargetInput{WidthMM: 74, HeightMM: 26, DPI: 203}

	saved, err := s.Save(tmpl, vars, target, true)
	require.NoError(t, err)
	require.NotEmpty(t, saved.DraftID)
	assert.True(t, saved.ExpiresAt.After(saved.CreatedAt))

	loaded, err := s.Load(saved.DraftID)
	require.NoError(t, err)
	assert.Equal(t, saved.DraftID, loaded.DraftID)
	assert.JSONEq(t, string(tmpl), string(loaded.Template))
	assert.Equal(t, vars, loaded.Variables)
	assert.Equal(t, target, loaded.Target)
	assert.True(t, loaded.Debug)
}

func TestLoadUnknownIDReturnsNotFound(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Load("00000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadMalformedIDReturnsNotFound(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Load("not-a-valid-draft-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadExpiredDraftReturnsNotFoundAndDeletesIt(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envTTLMinutes, "0")
	s := New(dir)

	saved, err := s.Save(json.RawMessage(`{}`), nil, TargetInput{}, false)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = s.Load(saved.DraftID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, statErr := os.Stat(filepath.Join(dir, saved.DraftID))
	assert.True(t, os.IsNotExist(statErr), "expired draft directory should be removed")
}

func TestSaveSweepsExpiredDraftsOnNextSave(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envTTLMinutes, "0")
	s := New(dir)

	first, err := s.Save(json.RawMessage(`{}`), nil, TargetInput{}, false)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	t.Setenv(envTTLMinutes, "30")
	_, err = s.Save(json.RawMessage(`{}`), nil, TargetInput{}, false)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, first.DraftID))
	assert.True(t, os.IsNotExist(statErr), "expired draft should be swept by a later Save")
}

func TestDraftIDsAreUnique(t *testing.T) {
	s := New(t.TempDir())
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		e, err := s.Save(json.RawMessage(`{}`), nil, TargetInput{}, false)
		require.NoError(t, err)
		assert.False(t, seen[e.DraftID], "draft id should not repeat")
		seen[e.DraftID] = true
	}
}
