package extras

import (
	"errors"
	"strings"
)

var (
	// ErrMissingExtra is matched by every MissingExtraError.
	ErrMissingExtra = errors.New("extras: required extra not found")
	// ErrNotWrapped is returned when unwrapping a value that was not wrapped.
	ErrNotWrapped = errors.New("extras: value is not wrapped")
)

// MissingExtraError reports a required key absent from a carrier.
type MissingExtraError struct {
	Key string
	// Fields are the required fields bound from Key.
	Fields []string
}

// Error implements the error interface.
func (e *MissingExtraError) Error() string {
	var b strings.Builder
	b.WriteString("Required extra with key '")
	b.WriteString(e.Key)
	b.WriteString("' for ")
	b.WriteString(joinFields(e.Fields))
	b.WriteString(" was not found. If this extra is optional add the 'optional' tag option.")

	return b.String()
}

// Is reports whether target is ErrMissingExtra.
func (e *MissingExtraError) Is(target error) bool {
	return target == ErrMissingExtra
}

// joinFields renders "field 'a'", "field 'a' and field 'b'" or
// "field 'a', field 'b', and field 'c'".
func joinFields(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = "field '" + f + "'"
	}

	switch len(quoted) {
	case 0:
		return "no field"
	case 1:
		return quoted[0]
	case 2:
		return quoted[0] + " and " + quoted[1]
	default:
		return strings.Join(quoted[:len(quoted)-1], ", ") + ", and " + quoted[len(quoted)-1]
	}
}

// AssignError reports a carrier value that does not fit its field.
type AssignError struct {
	Key string
	Err error
}

// Error implements the error interface.
func (e *AssignError) Error() string {
	return "extras: cannot assign extra '" + e.Key + "': " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *AssignError) Unwrap() error {
	return e.Err
}

// WrapError reports a wrapped value whose encoding failed.
type WrapError struct {
	Key string
	Err error
}

// Error implements the error interface.
func (e *WrapError) Error() string {
	return "extras: cannot wrap extra '" + e.Key + "': " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *WrapError) Unwrap() error {
	return e.Err
}
