package extras

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Wrapped is a value encoded with msgpack before it entered a carrier.
// Encoding errors are kept and reported when the value is unwrapped.
type Wrapped struct {
	data []byte
	err  error
}

// Wrap encodes v.
func Wrap(v any) Wrapped {
	data, err := msgpack.Marshal(v)
	return Wrapped{data: data, err: err}
}

// Bytes returns the encoded value.
func (w Wrapped) Bytes() []byte {
	return w.data
}

// Err returns the error raised while wrapping.
func (w Wrapped) Err() error {
	return w.err
}

// Unwrap decodes the wrapped value into dst.
func (w Wrapped) Unwrap(dst any) error {
	if w.err != nil {
		return w.err
	}

	return msgpack.Unmarshal(w.data, dst)
}

// Unwrap decodes a carrier value produced by Wrap into a new T.
func Unwrap[T any](v any) (T, error) {
	var out T

	w, ok := v.(Wrapped)
	if !ok {
		return out, ErrNotWrapped
	}

	err := w.Unwrap(&out)

	return out, err
}
