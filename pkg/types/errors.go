package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Storage errors.
var (
	ErrNotFound         = errors.New("instance not found")
	ErrUnknownClass     = errors.New("unknown class")
	ErrUnsupportedClass = errors.New("class not supported by this storage")
	ErrStoreClosed      = errors.New("storage is closed")
)

// Model errors.
var (
	ErrTypeMismatch = errors.New("type mismatch")
	ErrReadOnlyAttr = errors.New("attribute is read-only")
	ErrValidation   = errors.New("validation failed")
)

// ValidationError lists the attributes of an object that failed validation,
// keyed by attribute name. It unwraps to ErrValidation.
type ValidationError struct {
	Class  string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	msgs := make([]string, len(names))
	for i, name := range names {
		msgs[i] = e.Fields[name]
	}
	return fmt.Sprintf("invalid %s: %s", e.Class, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
