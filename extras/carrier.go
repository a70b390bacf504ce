package extras

import (
	"fmt"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// Carrier is the key/value envelope extras travel in. Values are type
// erased; the binder restores their types.
type Carrier interface {
	Put(key string, value any)
	Get(key string) (any, bool)
}

// Bundle is the default Carrier. It is not safe for concurrent use.
type Bundle struct {
	values map[string]any
}

// NewBundle creates an empty Bundle.
func NewBundle() *Bundle {
	return &Bundle{values: make(map[string]any)}
}

// Put stores value under key, replacing any previous value.
func (b *Bundle) Put(key string, value any) {
	if b.values == nil {
		b.values = make(map[string]any)
	}

	b.values[key] = value
}

// Get returns the value stored under key.
func (b *Bundle) Get(key string) (any, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Len returns the number of stored keys.
func (b *Bundle) Len() int {
	return len(b.values)
}

// Keys returns the stored keys in ascending order.
func (b *Bundle) Keys() []string {
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// bundleWire is the encoded form of a Bundle. Wrapped values are kept apart
// so they decode back into Wrapped.
type bundleWire struct {
	Values  map[string]any    `msgpack:"v,omitempty"`
	Wrapped map[string][]byte `msgpack:"w,omitempty"`
}

// MarshalBinary encodes the bundle with msgpack.
func (b *Bundle) MarshalBinary() ([]byte, error) {
	wire := bundleWire{}

	for k, v := range b.values {
		switch w := v.(type) {
		case Wrapped:
			if w.err != nil {
				return nil, &WrapError{Key: k, Err: w.err}
			}

			if wire.Wrapped == nil {
				wire.Wrapped = make(map[string][]byte)
			}

			wire.Wrapped[k] = w.data
		default:
			if wire.Values == nil {
				wire.Values = make(map[string]any)
			}

			wire.Values[k] = v
		}
	}

	data, err := msgpack.Marshal(&wire)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bundle: %w", err)
	}

	return data, nil
}

// UnmarshalBinary replaces the bundle content with the decoded data.
func (b *Bundle) UnmarshalBinary(data []byte) error {
	var wire bundleWire
	if err := msgpack.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("failed to decode bundle: %w", err)
	}

	b.values = make(map[string]any, len(wire.Values)+len(wire.Wrapped))

	for k, v := range wire.Values {
		b.values[k] = v
	}

	for k, d := range wire.Wrapped {
		b.values[k] = Wrapped{data: d}
	}

	return nil
}

// Intent is the result of a builder: the target to start and its extras.
type Intent struct {
	Target string
	Extras Carrier
}

// Transferable is implemented by values that encode themselves for a carrier.
type Transferable interface {
	MarshalExtra() ([]byte, error)
}
