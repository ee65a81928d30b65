package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NateMachoka/AirBnB-clone-v2/internal/dbstore"
	"github.com/NateMachoka/AirBnB-clone-v2/internal/filestore"
	"github.com/NateMachoka/AirBnB-clone-v2/pkg/types"
)

// backends returns one config per backend, each rooted in its own temp dir.
func backends(t *testing.T) map[string]types.Config {
	t.Helper()
	return map[string]types.Config{
		types.StorageFile: {
			Storage:  types.StorageFile,
			FilePath: filepath.Join(t.TempDir(), "file.json"),
		},
		types.StorageDB: {
			Storage:  types.StorageDB,
			DBDriver: types.DriverSQLite,
			DSN:      filepath.Join(t.TempDir(), "hbnb.db"),
		},
	}
}

func TestOpen(t *testing.T) {
	cfgs := backends(t)

	s, err := Open(cfgs[types.StorageFile], nil)
	require.NoError(t, err)
	assert.IsType(t, &filestore.Store{}, s)
	require.NoError(t, s.Close())

	s, err = Open(cfgs[types.StorageDB], nil)
	require.NoError(t, err)
	assert.IsType(t, &dbstore.Store{}, s)
	require.NoError(t, s.Close())

	_, err = Open(types.Config{Storage: "cloud"}, nil)
	assert.ErrorIs(t, err, types.ErrStorageUnknown)

	_, err = Open(types.Config{Storage: types.StorageFile}, nil)
	assert.ErrorIs(t, err, types.ErrFilePathEmpty)
}

func create(t *testing.T, s types.Storage, class string, attrs map[string]any) types.Model {
	t.Helper()
	m, err := types.NewModel(class)
	require.NoError(t, err)
	for k, v := range attrs {
		require.NoError(t, types.Set(m, k, v))
	}
	require.NoError(t, s.New(m))
	return m
}

func TestRelations(t *testing.T) {
	for name, cfg := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s, err := Open(cfg, nil)
			require.NoError(t, err)
			defer s.Close()

			user := create(t, s, types.ClassUser, map[string]any{"email": "a@b.c", "password": "pw"})
			other := create(t, s, types.ClassUser, map[string]any{"email": "x@y.z", "password": "pw"})
			ca := create(t, s, types.ClassState, map[string]any{"name": "California"})
			nv := create(t, s, types.ClassState, map[string]any{"name": "Nevada"})
			sf := create(t, s, types.ClassCity, map[string]any{"name": "San Francisco", "state_id": ca.Base().ID})
			la := create(t, s, types.ClassCity, map[string]any{"name": "Los Angeles", "state_id": ca.Base().ID})
			create(t, s, types.ClassCity, map[string]any{"name": "Reno", "state_id": nv.Base().ID})
			wifi := create(t, s, types.ClassAmenity, map[string]any{"name": "Wifi"})
			loft := create(t, s, types.ClassPlace, map[string]any{
				"name": "Loft", "city_id": sf.Base().ID, "user_id": user.Base().ID,
				"amenity_ids": []string{wifi.Base().ID},
			})
			create(t, s, types.ClassPlace, map[string]any{
				"name": "Bungalow", "city_id": la.Base().ID, "user_id": other.Base().ID,
			})
			review := create(t, s, types.ClassReview, map[string]any{
				"place_id": loft.Base().ID, "user_id": other.Base().ID, "text": "Great",
			})
			require.NoError(t, s.Save())

			cities, err := CitiesOf(s, ca.Base().ID)
			require.NoError(t, err)
			require.Len(t, cities, 2)
			SortByName(cities, func(c *types.City) string { return c.Name })
			assert.Equal(t, "Los Angeles", cities[0].Name)
			assert.Equal(t, "San Francisco", cities[1].Name)

			places, err := PlacesOfCity(s, sf.Base().ID)
			require.NoError(t, err)
			require.Len(t, places, 1)
			assert.Equal(t, "Loft", places[0].Name)

			places, err = PlacesOfUser(s, other.Base().ID)
			require.NoError(t, err)
			require.Len(t, places, 1)
			assert.Equal(t, "Bungalow", places[0].Name)

			reviews, err := ReviewsOf(s, loft.Base().ID)
			require.NoError(t, err)
			require.Len(t, reviews, 1)
			assert.Equal(t, types.Key(review), types.Key(reviews[0]))

			amenities, err := AmenitiesOf(s, loft.(*types.Place))
			require.NoError(t, err)
			require.Len(t, amenities, 1)
			assert.Equal(t, "Wifi", amenities[0].Name)
		})
	}
}

func TestAmenitiesOfSkipsMissing(t *testing.T) {
	s, err := Open(backends(t)[types.StorageFile], nil)
	require.NoError(t, err)
	defer s.Close()

	pool := create(t, s, types.ClassAmenity, map[string]any{"name": "Pool"})
	p := &types.Place{AmenityIDs: []string{"gone", pool.Base().ID}}

	got, err := AmenitiesOf(s, p)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pool", got[0].Name)
}
