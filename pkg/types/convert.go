package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// assign stores value into the field behind ptr, converting it to the
// field's type.
func assign(ptr any, value any) error {
	switch p := ptr.(type) {
	case *string:
		s, err := toString(value)
		if err != nil {
			return err
		}
		*p = s
	case *int:
		n, err := ToInt(value)
		if err != nil {
			return err
		}
		*p = n
	case *float64:
		f, err := ToFloat(value)
		if err != nil {
			return err
		}
		*p = f
	case *[]string:
		l, err := toStringList(value)
		if err != nil {
			return err
		}
		*p = l
	default:
		return fmt.Errorf("%w: unsupported field type %T", ErrTypeMismatch, ptr)
	}
	return nil
}

func toString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	case int, int64, float64, bool:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("%w: cannot use %T as string", ErrTypeMismatch, value)
	}
}

// ToInt converts value to an int. Strings are parsed in base 10; floats must
// be integral (JSON decoding yields float64 for every number).
func ToInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrTypeMismatch, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrTypeMismatch, v)
		}
		return n, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: cannot use %T as integer", ErrTypeMismatch, value)
	}
}

// ToFloat converts value to a finite float64. Strings are parsed with
// strconv.ParseFloat; NaN and infinities are rejected since they have no
// JSON form.
func ToFloat(value any) (float64, error) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrTypeMismatch, v)
		}
		f = parsed
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: cannot use %T as number", ErrTypeMismatch, value)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v is not a finite number", ErrTypeMismatch, value)
	}
	return f, nil
}

func toStringList(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: list item %v is not a string", ErrTypeMismatch, item)
			}
			out = append(out, s)
		}
		return out, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: cannot use %T as list", ErrTypeMismatch, value)
	}
}
