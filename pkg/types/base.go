package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// TimeFormat is the layout used for created_at and updated_at in field
// mappings and in the JSON file. Microsecond precision keeps files written by
// older clones readable.
const TimeFormat = "2006-01-02T15:04:05.000000"

// Reserved attribute names. They are part of every field mapping and cannot
// be changed through Model.Set.
const (
	AttrClass     = "__class__"
	AttrID        = "id"
	AttrCreatedAt = "created_at"
	AttrUpdatedAt = "updated_at"
)

// Model is implemented by every persisted class. Concrete classes embed
// BaseModel and declare their own attributes through Fields.
type Model interface {
	// ClassName returns the registry name of the class (e.g. "State").
	ClassName() string

	// Base returns the embedded common fields.
	Base() *BaseModel

	// Fields lists the declared attributes of the class, bound to the
	// receiver's struct fields.
	Fields() []Field
}

// Field binds an attribute name to a struct field. Ptr is one of *string,
// *int, *float64 or *[]string.
type Field struct {
	Name string
	Ptr  any
}

// BaseModel holds the fields common to every class: identifier, timestamps
// and attributes set outside the declared set.
type BaseModel struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Extra     map[string]any `json:"-" validate:"-"`
}

// Base returns b. Embedding classes inherit it.
func (b *BaseModel) Base() *BaseModel { return b }

// ClassName returns "BaseModel".
func (b *BaseModel) ClassName() string { return ClassBaseModel }

// Fields returns nil: BaseModel declares no attributes of its own.
func (b *BaseModel) Fields() []Field { return nil }

// String renders the model in the console format.
func (b *BaseModel) String() string { return Format(b) }

// Touch advances updated_at to the current time. It never moves it backwards.
func (b *BaseModel) Touch() {
	now := now()
	if now.After(b.UpdatedAt) {
		b.UpdatedAt = now
	}
}

// now returns the current UTC time truncated to the precision of TimeFormat,
// so a value survives a round trip through a field mapping unchanged.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// newID generates a UUID v7 identifier.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// initBase assigns a fresh identifier and creation timestamps.
func initBase(b *BaseModel) {
	t := now()
	b.ID = newID()
	b.CreatedAt = t
	b.UpdatedAt = t
}

// Key returns the storage key "Class.id" of m.
func Key(m Model) string {
	return KeyOf(m.ClassName(), m.Base().ID)
}

// KeyOf builds a storage key from a class name and identifier.
func KeyOf(class, id string) string {
	return class + "." + id
}

// ToMap returns the full field mapping of m: class name, identifier,
// timestamps, declared attributes and extra attributes.
func ToMap(m Model) map[string]any {
	b := m.Base()
	out := make(map[string]any, len(b.Extra)+8)
	for k, v := range b.Extra {
		out[k] = v
	}
	for _, f := range m.Fields() {
		switch p := f.Ptr.(type) {
		case *string:
			out[f.Name] = *p
		case *int:
			out[f.Name] = *p
		case *float64:
			out[f.Name] = *p
		case *[]string:
			if len(*p) > 0 {
				out[f.Name] = append([]string(nil), (*p)...)
			}
		}
	}
	out[AttrClass] = m.ClassName()
	out[AttrID] = b.ID
	out[AttrCreatedAt] = b.CreatedAt.Format(TimeFormat)
	out[AttrUpdatedAt] = b.UpdatedAt.Format(TimeFormat)
	return out
}

// Format renders m as "[Class] (id) {attributes}" with attributes encoded as
// a JSON object with sorted keys.
func Format(m Model) string {
	attrs := ToMap(m)
	delete(attrs, AttrClass)
	data, err := json.Marshal(attrs)
	if err != nil {
		data = []byte(fmt.Sprint(attrs))
	}
	return fmt.Sprintf("[%s] (%s) %s", m.ClassName(), m.Base().ID, data)
}

// Get returns the value of attribute name on m. Reserved attributes return
// their mapping representation.
func Get(m Model, name string) (any, bool) {
	v, ok := ToMap(m)[name]
	return v, ok
}

// Set assigns value to attribute name on m. Declared attributes are converted
// to the field's Go type; ErrTypeMismatch is returned when that is not
// possible. Unknown attributes are stored unchanged. Reserved attributes
// return ErrReadOnlyAttr.
func Set(m Model, name string, value any) error {
	switch name {
	case AttrClass, AttrID, AttrCreatedAt, AttrUpdatedAt:
		return fmt.Errorf("%w: %s", ErrReadOnlyAttr, name)
	}
	for _, f := range m.Fields() {
		if f.Name != name {
			continue
		}
		if err := assign(f.Ptr, value); err != nil {
			return fmt.Errorf("%s.%s: %w", m.ClassName(), name, err)
		}
		return nil
	}
	b := m.Base()
	if b.Extra == nil {
		b.Extra = make(map[string]any)
	}
	b.Extra[name] = value
	return nil
}

// FieldNames returns the declared attribute names of m in declaration order.
func FieldNames(m Model) []string {
	fields := m.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// SortedKeys returns the keys of a model mapping in ascending order.
func SortedKeys(objs map[string]Model) []string {
	keys := make([]string, 0, len(objs))
	for k := range objs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of m through its field mapping.
func Clone(m Model) Model {
	c, err := FromMap(m.ClassName(), ToMap(m))
	if err != nil {
		// FromMap only fails for unknown classes or malformed mappings, and a
		// mapping produced by ToMap is neither.
		panic(fmt.Sprintf("clone %s: %v", Key(m), err))
	}
	return c
}
