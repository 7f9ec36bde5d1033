package library

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSlugifiesNameAndDeduplicates(t *testing.T) {
	lib := New(t.TempDir())

	e1, err := lib.Create(SavePayload{Name: "Asset Tag!", Template: json.RawMessage(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, "asset-tag", e1.ID)

	e2, err := lib.Create(SavePayload{Name: "Asset Tag!", Template: json.RawMessage(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, "asset-tag-2", e2.ID)
}

func TestGetRoundTripsMetadata(t *testing.T) {
	lib := New(t.TempDir())
	created, err := lib.Create(SavePayload{
		Name: "Shipping Label",
		Tags: []string{"shipping", "warehouse"},
		Variables: []VariableDoc{
			{Name: "tracking_id", Example: "1Z999"},
		},
		Template:   json.RawMessage(`{"schema_version":1}`),
		SampleData: json.RawMessage(`{"tracking_id":"1Z999"}`),
	})
	require.NoError(t, err)

	got, err := lib.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.ElementsMatch(t, []string{"shipping", "warehouse"}, got.Tags)
	require.Len(t, got.Variables, 1)
	assert.Equal(t, "tracking_id", got.Variables[0].Name)
}

func TestGetUnknownIDReturnsNotFound(t *testing.T) {
	lib := New(t.TempDir())
	_, err := lib.Get("does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersByRequiringAllTags(t *testing.T) {
	lib := New(t.TempDir())
	_, err := lib.Create(SavePayload{Name: "A", Tags: []string{"shipping"}, Template: json.RawMessage(`{}`)})
	require.NoError(t, err)
	_, err = lib.Create(SavePayload{Name: "B", Tags: []string{"shipping", "warehouse"}, Template: json.RawMessage(`{}`)})
	require.NoError(t, err)

	all, err := lib.List(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := lib.List([]string{"warehouse"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "b", filtered[0].ID)
}

func TestUpdateOverwritesInPlaceKeepingID(t *testing.T) {
	lib := New(t.TempDir())
	created, err := lib.Create(SavePayload{Name: "Original", Template: json.RawMessage(`{"v":1}`)})
	require.NoError(t, err)

	updated, err := lib.Update(created.ID, SavePayload{Name: "Renamed", Template: json.RawMessage(`{"v":2}`)})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Renamed", updated.Name)

	got, err := lib.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
}

func TestUpdateUnknownIDReturnsNotFound(t *testing.T) {
	lib := New(t.TempDir())
	_, err := lib.Update("missing", SavePayload{Name: "X", Template: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesEntry(t *testing.T) {
	lib := New(t.TempDir())
	created, err := lib.Create(SavePayload{Name: "Temp", Template: json.RawMessage(`{}`)})
	require.NoError(t, err)

	require.NoError(t, lib.Delete(created.ID))

	_, err = lib.Get(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUnknownIDReturnsNotFound(t *testing.T) {
	lib := New(t.TempDir())
	assert.ErrorIs(t, lib.Delete("missing"), ErrNotFound)
}
