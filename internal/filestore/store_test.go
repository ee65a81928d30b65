package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NateMachoka/AirBnB-clone-v2/pkg/types"
)

// setupStore opens a Store on a fresh document inside a temp directory.
func setupStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file.json")
	s, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func mustNew(t *testing.T, s *Store, class string, attrs map[string]any) types.Model {
	t.Helper()
	m, err := types.NewModel(class)
	require.NoError(t, err)
	for k, v := range attrs {
		require.NoError(t, types.Set(m, k, v))
	}
	require.NoError(t, s.New(m))
	return m
}

func TestOpenMissingFile(t *testing.T) {
	s, path := setupStore(t)

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	all, err := s.All("")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNewAndAll(t *testing.T) {
	s, _ := setupStore(t)

	state := mustNew(t, s, types.ClassState, map[string]any{"name": "California"})
	mustNew(t, s, types.ClassUser, map[string]any{"email": "a@b.c"})

	all, err := s.All("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	states, err := s.All(types.ClassState)
	require.NoError(t, err)
	require.Len(t, states, 1)
	got := states[types.Key(state)].(*types.State)
	assert.Equal(t, "California", got.Name)

	_, err = s.All("Castle")
	assert.ErrorIs(t, err, types.ErrUnknownClass)
}

func TestNewReplacesExisting(t *testing.T) {
	s, _ := setupStore(t)
	m := mustNew(t, s, types.ClassState, map[string]any{"name": "Nevada"})

	require.NoError(t, types.Set(m, "name", "Arizona"))
	require.NoError(t, s.New(m))

	n, err := s.Count(types.ClassState)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.Get(types.ClassState, m.Base().ID)
	require.NoError(t, err)
	assert.Equal(t, "Arizona", got.(*types.State).Name)
}

func TestReturnedObjectsAreCopies(t *testing.T) {
	s, _ := setupStore(t)
	m := mustNew(t, s, types.ClassState, map[string]any{"name": "Ohio"})

	got, err := s.Get(types.ClassState, m.Base().ID)
	require.NoError(t, err)
	got.(*types.State).Name = "changed"

	again, err := s.Get(types.ClassState, m.Base().ID)
	require.NoError(t, err)
	assert.Equal(t, "Ohio", again.(*types.State).Name)
}

func TestGet(t *testing.T) {
	s, _ := setupStore(t)
	m := mustNew(t, s, types.ClassAmenity, map[string]any{"name": "Wifi"})

	got, err := s.Get(types.ClassAmenity, m.Base().ID)
	require.NoError(t, err)
	assert.Equal(t, types.Key(m), types.Key(got))

	_, err = s.Get(types.ClassAmenity, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = s.Get(types.ClassState, m.Base().ID)
	assert.ErrorIs(t, err, types.ErrNotFound, "lookups are scoped to the class")

	_, err = s.Get("Castle", "x")
	assert.ErrorIs(t, err, types.ErrUnknownClass)
}

func TestDelete(t *testing.T) {
	s, _ := setupStore(t)
	m := mustNew(t, s, types.ClassCity, map[string]any{"name": "Reno", "state_id": "s1"})

	require.NoError(t, s.Delete(nil))
	require.NoError(t, s.Delete(m))
	require.NoError(t, s.Delete(m), "deleting an untracked object is a no-op")

	_, err := s.Get(types.ClassCity, m.Base().ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	cities, err := s.Where(types.ClassCity, "state_id", "s1")
	require.NoError(t, err)
	assert.Empty(t, cities, "secondary index must drop deleted objects")
}

func TestWhere(t *testing.T) {
	s, _ := setupStore(t)
	c1 := mustNew(t, s, types.ClassCity, map[string]any{"name": "Reno", "state_id": "nv"})
	c2 := mustNew(t, s, types.ClassCity, map[string]any{"name": "Vegas", "state_id": "nv"})
	mustNew(t, s, types.ClassCity, map[string]any{"name": "Fresno", "state_id": "ca"})
	mustNew(t, s, types.ClassCity, map[string]any{"name": "Nowhere"})

	t.Run("indexed attribute", func(t *testing.T) {
		got, err := s.Where(types.ClassCity, "state_id", "nv")
		require.NoError(t, err)
		require.Len(t, got, 2)
		keys := []string{types.Key(got[0]), types.Key(got[1])}
		assert.ElementsMatch(t, []string{types.Key(c1), types.Key(c2)}, keys)
		assert.Less(t, keys[0], keys[1])
	})

	t.Run("index follows updates", func(t *testing.T) {
		require.NoError(t, types.Set(c2, "state_id", "ca"))
		require.NoError(t, s.New(c2))

		nv, err := s.Where(types.ClassCity, "state_id", "nv")
		require.NoError(t, err)
		assert.Len(t, nv, 1)

		ca, err := s.Where(types.ClassCity, "state_id", "ca")
		require.NoError(t, err)
		assert.Len(t, ca, 2)
	})

	t.Run("scanned attribute", func(t *testing.T) {
		got, err := s.Where(types.ClassCity, "name", "Fresno")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Fresno", got[0].(*types.City).Name)
	})

	t.Run("empty foreign key matches nothing", func(t *testing.T) {
		got, err := s.Where(types.ClassCity, "state_id", "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSaveReloadRoundTrip(t *testing.T) {
	s, path := setupStore(t)

	state := mustNew(t, s, types.ClassState, map[string]any{"name": "Oregon"})
	place := mustNew(t, s, types.ClassPlace, map[string]any{
		"name":           "Cabin",
		"city_id":        "c1",
		"user_id":        "u1",
		"number_rooms":   3,
		"latitude":       45.5,
		"amenity_ids":    []string{"a1"},
		"favorite_color": "green",
	})
	mustNew(t, s, types.ClassBaseModel, nil)
	require.NoError(t, s.Save())

	before, err := s.All("")
	require.NoError(t, err)

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	after, err := reopened.All("")
	require.NoError(t, err)

	require.Equal(t, types.SortedKeys(before), types.SortedKeys(after))
	for key, m := range before {
		assert.Equal(t, types.ToMap(m), types.ToMap(after[key]), key)
	}

	gotPlace := after[types.Key(place)].(*types.Place)
	assert.Equal(t, 3, gotPlace.NumberRooms)
	assert.Equal(t, "green", gotPlace.Extra["favorite_color"])
	assert.Equal(t, "Oregon", after[types.Key(state)].(*types.State).Name)
}

func TestSaveDocumentFormat(t *testing.T) {
	s, path := setupStore(t)
	m := mustNew(t, s, types.ClassState, map[string]any{"name": "Utah"})
	require.NoError(t, s.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	entry, ok := doc["State."+m.Base().ID]
	require.True(t, ok)
	assert.Equal(t, "State", entry["__class__"])
	assert.Equal(t, "Utah", entry["name"])
	assert.Equal(t, m.Base().CreatedAt.Format(types.TimeFormat), entry["created_at"])
}

func TestReloadDiscardsUnsaved(t *testing.T) {
	s, _ := setupStore(t)
	saved := mustNew(t, s, types.ClassState, map[string]any{"name": "Saved"})
	require.NoError(t, s.Save())
	mustNew(t, s, types.ClassState, map[string]any{"name": "Unsaved"})

	require.NoError(t, s.Reload())

	all, err := s.All(types.ClassState)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Contains(t, all, types.Key(saved))
}

func TestReloadSkipsBadEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.json")
	doc := `{
		"State.ok": {"__class__": "State", "id": "ok", "name": "Idaho",
			"created_at": "2017-09-28T21:05:54.119427", "updated_at": "2017-09-28T21:05:54.119427"},
		"Castle.x": {"id": "x"},
		"City.bad": {"id": "bad", "created_at": "not a time"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := Open(path, nil)
	require.NoError(t, err)

	all, err := s.All("")
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Contains(t, all, "State.ok")
}

func TestReloadMalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path, nil)
	assert.Error(t, err)
}

func TestSaveFailureRevertsUnsaved(t *testing.T) {
	s, path := setupStore(t)
	saved := mustNew(t, s, types.ClassState, map[string]any{"name": "Saved"})
	require.NoError(t, s.Save())

	// A non-empty directory at path makes the final rename fail.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "blocker"), 0o755))

	mustNew(t, s, types.ClassState, map[string]any{"name": "Unsaved"})
	require.NoError(t, s.Delete(saved))
	require.Error(t, s.Save())

	all, err := s.All(types.ClassState)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Saved", all[types.Key(saved)].(*types.State).Name)

	t.Run("store stays usable", func(t *testing.T) {
		require.NoError(t, os.RemoveAll(path))
		mustNew(t, s, types.ClassState, map[string]any{"name": "Later"})
		require.NoError(t, s.Save())

		n, err := s.Count(types.ClassState)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestClosed(t *testing.T) {
	s, _ := setupStore(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.All("")
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	assert.ErrorIs(t, s.Save(), types.ErrStoreClosed)
	assert.ErrorIs(t, s.Reload(), types.ErrStoreClosed)
}
