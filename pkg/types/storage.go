package types

// Storage is the contract shared by the file and database backends.
//
// Objects returned by All, Get and Where are copies. Changing one has no
// effect on the backend until it is passed back to New.
type Storage interface {
	// All returns every tracked object of class keyed by "Class.id".
	// An empty class returns objects of every class. Returns
	// ErrUnknownClass for unregistered names.
	All(class string) (map[string]Model, error)

	// Get returns the object of class with the given id, or ErrNotFound.
	Get(class, id string) (Model, error)

	// Count returns the number of tracked objects of class (all classes
	// when class is empty).
	Count(class string) (int, error)

	// Where returns the objects of class whose attribute field equals
	// value, ordered by key.
	Where(class, field, value string) ([]Model, error)

	// New registers obj for persistence. Registering an object whose key
	// is already tracked replaces the tracked state.
	New(obj Model) error

	// Save makes every pending change durable.
	Save() error

	// Delete removes obj from the tracked set. A nil obj is a no-op.
	Delete(obj Model) error

	// Reload discards unsaved state and rebuilds the tracked set from
	// durable storage.
	Reload() error

	// Close releases backend resources. Further calls return
	// ErrStoreClosed. Close is idempotent.
	Close() error
}
