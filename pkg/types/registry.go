package types

import (
	"fmt"
	"time"
)

// Class names.
const (
	ClassBaseModel = "BaseModel"
	ClassUser      = "User"
	ClassState     = "State"
	ClassCity      = "City"
	ClassAmenity   = "Amenity"
	ClassPlace     = "Place"
	ClassReview    = "Review"
)

// registry maps class names to zero-value constructors. It is fixed at
// compile time; backends and the console resolve class names through it
// instead of looking types up dynamically.
var registry = map[string]func() Model{
	ClassBaseModel: func() Model { return &BaseModel{} },
	ClassUser:      func() Model { return &User{} },
	ClassState:     func() Model { return &State{} },
	ClassCity:      func() Model { return &City{} },
	ClassAmenity:   func() Model { return &Amenity{} },
	ClassPlace:     func() Model { return &Place{} },
	ClassReview:    func() Model { return &Review{} },
}

// classOrder lists every registered class, BaseModel first, then the
// entities in foreign-key dependency order.
var classOrder = []string{
	ClassBaseModel,
	ClassUser,
	ClassState,
	ClassCity,
	ClassAmenity,
	ClassPlace,
	ClassReview,
}

// Classes returns the registered class names in dependency order.
func Classes() []string {
	return append([]string(nil), classOrder...)
}

// EntityClasses returns the registered classes except BaseModel.
func EntityClasses() []string {
	return append([]string(nil), classOrder[1:]...)
}

// IsClass reports whether name is a registered class.
func IsClass(name string) bool {
	_, ok := registry[name]
	return ok
}

// NewModel returns a new instance of class with a fresh identifier and
// timestamps. Returns ErrUnknownClass for unregistered names.
func NewModel(class string) (Model, error) {
	ctor, ok := registry[class]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}
	m := ctor()
	initBase(m.Base())
	return m, nil
}

// FromMap rebuilds an instance of class from a field mapping as produced by
// ToMap. The __class__ entry is ignored. Missing timestamps default to the
// current time and a missing id is generated, so a partial mapping still
// yields a usable object.
func FromMap(class string, fields map[string]any) (Model, error) {
	ctor, ok := registry[class]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}
	m := ctor()
	b := m.Base()
	initBase(b)

	for name, value := range fields {
		switch name {
		case AttrClass:
			continue
		case AttrID:
			id, ok := value.(string)
			if !ok || id == "" {
				return nil, fmt.Errorf("%w: id must be a non-empty string", ErrTypeMismatch)
			}
			b.ID = id
		case AttrCreatedAt:
			t, err := parseTime(value)
			if err != nil {
				return nil, fmt.Errorf("created_at: %w", err)
			}
			b.CreatedAt = t
		case AttrUpdatedAt:
			t, err := parseTime(value)
			if err != nil {
				return nil, fmt.Errorf("updated_at: %w", err)
			}
			b.UpdatedAt = t
		default:
			if err := Set(m, name, value); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// parseTime accepts TimeFormat, RFC 3339 strings and time.Time values.
func parseTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		// The layout without fraction also accepts any fractional seconds.
		if t, err := time.Parse("2006-01-02T15:04:05", v); err == nil {
			return t.UTC(), nil
		}
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: bad timestamp %q", ErrTypeMismatch, v)
		}
		return t.UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("%w: timestamp must be a string", ErrTypeMismatch)
	}
}

// ParseTime parses a timestamp in TimeFormat or RFC 3339.
func ParseTime(s string) (time.Time, error) {
	return parseTime(s)
}
