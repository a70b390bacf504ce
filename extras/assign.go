package extras

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Assign stores a carrier value into dst. Values of the field type are
// assigned directly and wrapped values are decoded. Anything else, such as
// a number decoded from a transported bundle with a different width, is
// converted through a msgpack round trip.
func Assign[T any](dst *T, v any, key string) error {
	if v == nil {
		var zero T
		*dst = zero

		return nil
	}

	switch x := v.(type) {
	case T:
		*dst = x
		return nil
	case Wrapped:
		if err := x.Unwrap(dst); err != nil {
			return &AssignError{Key: key, Err: err}
		}

		return nil
	}

	data, err := msgpack.Marshal(v)
	if err != nil {
		return &AssignError{Key: key, Err: err}
	}

	if err := msgpack.Unmarshal(data, dst); err != nil {
		return &AssignError{Key: key, Err: err}
	}

	return nil
}

// Lookup returns the value stored under key and whether it is present. A
// nil carrier holds no values.
func Lookup(c Carrier, key string) (any, bool) {
	if c == nil {
		return nil, false
	}

	return c.Get(key)
}
