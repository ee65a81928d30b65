package storage

import (
	"errors"
	"sort"

	"github.com/NateMachoka/AirBnB-clone-v2/pkg/types"
)

// CitiesOf returns the cities of the state with the given id.
func CitiesOf(s types.Storage, stateID string) ([]*types.City, error) {
	objs, err := s.Where(types.ClassCity, "state_id", stateID)
	if err != nil {
		return nil, err
	}
	return typed[*types.City](objs), nil
}

// ReviewsOf returns the reviews of the place with the given id.
func ReviewsOf(s types.Storage, placeID string) ([]*types.Review, error) {
	objs, err := s.Where(types.ClassReview, "place_id", placeID)
	if err != nil {
		return nil, err
	}
	return typed[*types.Review](objs), nil
}

// PlacesOfCity returns the places in the city with the given id.
func PlacesOfCity(s types.Storage, cityID string) ([]*types.Place, error) {
	objs, err := s.Where(types.ClassPlace, "city_id", cityID)
	if err != nil {
		return nil, err
	}
	return typed[*types.Place](objs), nil
}

// PlacesOfUser returns the places owned by the user with the given id.
func PlacesOfUser(s types.Storage, userID string) ([]*types.Place, error) {
	objs, err := s.Where(types.ClassPlace, "user_id", userID)
	if err != nil {
		return nil, err
	}
	return typed[*types.Place](objs), nil
}

// AmenitiesOf returns the amenities linked to p, ordered by key. Ids that
// name no stored amenity are skipped.
func AmenitiesOf(s types.Storage, p *types.Place) ([]*types.Amenity, error) {
	var out []*types.Amenity
	for _, id := range p.AmenityIDs {
		m, err := s.Get(types.ClassAmenity, id)
		if errors.Is(err, types.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, m.(*types.Amenity))
	}
	sort.Slice(out, func(i, j int) bool { return types.Key(out[i]) < types.Key(out[j]) })
	return out, nil
}

// SortByName orders named objects by name, then by key.
func SortByName[T types.Model](objs []T, name func(T) string) {
	sort.SliceStable(objs, func(i, j int) bool {
		ni, nj := name(objs[i]), name(objs[j])
		if ni != nj {
			return ni < nj
		}
		return types.Key(objs[i]) < types.Key(objs[j])
	})
}

func typed[T types.Model](objs []types.Model) []T {
	out := make([]T, 0, len(objs))
	for _, m := range objs {
		if t, ok := m.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
