package model

import (
	"errors"
	"go/token"
	"strings"

	"extras-generator/internal/common"
	"extras-generator/internal/diagnostic"
)

// Sentinel errors for each violation class.
var (
	// ErrStructural indicates a model or field declared in a shape that cannot be generated.
	ErrStructural = errors.New("extras: structural violation")
	// ErrTypeEligibility indicates a field whose type cannot travel in a carrier.
	ErrTypeEligibility = errors.New("extras: ineligible value type")
	// ErrKeySyntax indicates a key that cannot become a builder method.
	ErrKeySyntax = errors.New("extras: invalid key")
	// ErrAncestorResolution indicates an ancestor without a generated builder.
	ErrAncestorResolution = errors.New("extras: ancestor resolution failed")
	// ErrCyclicAncestry indicates models that embed each other.
	ErrCyclicAncestry = errors.New("extras: cyclic ancestry")
)

// ViolationKind classifies a rejected declaration.
type ViolationKind int

const (
	ViolationStructural ViolationKind = iota
	ViolationTypeEligibility
	ViolationKeySyntax
	ViolationAncestorResolution
)

// String returns the diagnostic code of the violation.
func (k ViolationKind) String() string {
	switch k {
	case ViolationStructural:
		return "structural"
	case ViolationTypeEligibility:
		return "type_eligibility"
	case ViolationKeySyntax:
		return "key_syntax"
	case ViolationAncestorResolution:
		return "ancestor_resolution"
	default:
		return common.UnknownStr
	}
}

func (k ViolationKind) sentinel() error {
	switch k {
	case ViolationStructural:
		return ErrStructural
	case ViolationTypeEligibility:
		return ErrTypeEligibility
	case ViolationKeySyntax:
		return ErrKeySyntax
	case ViolationAncestorResolution:
		return ErrAncestorResolution
	default:
		return nil
	}
}

// ViolationError is a rejected model or binding declaration.
type ViolationError struct {
	Kind    ViolationKind
	Model   string // Model type, fully qualified
	Field   string // Field name (if applicable)
	Message string
	Pos     token.Position
}

// Error implements the error interface.
func (e *ViolationError) Error() string {
	var b strings.Builder
	b.WriteString("extras: ")
	b.WriteString(e.Kind.String())
	b.WriteString(" violation")

	if e.Model != "" {
		b.WriteString(" on model ")
		b.WriteString(e.Model)
	}

	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	return b.String()
}

// Is reports whether the target matches the sentinel error of the violation kind.
func (e *ViolationError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// NewViolation creates a new ViolationError.
func NewViolation(kind ViolationKind, modelName, fieldName, message string, pos token.Position) *ViolationError {
	return &ViolationError{
		Kind:    kind,
		Model:   modelName,
		Field:   fieldName,
		Message: message,
		Pos:     pos,
	}
}

// Diagnostic converts the violation into an error diagnostic.
func (e *ViolationError) Diagnostic() diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticError,
		Code:     e.Kind.String(),
		Message:  e.Message,
		Model:    e.Model,
		Field:    e.Field,
		Pos:      e.Pos,
	}
}

// Report records err in diags. Violations keep their kind as the diagnostic
// code; any other error is recorded as an internal error. Joined errors are
// recorded one by one.
func Report(diags *diagnostic.Diagnostics, err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			Report(diags, e)
		}

		return
	}

	var v *ViolationError
	if errors.As(err, &v) {
		diags.Add(v.Diagnostic())
		return
	}

	diags.AddError("internal", err.Error(), "", "")
}

// IsViolation reports whether err is or wraps a ViolationError.
func IsViolation(err error) bool {
	var v *ViolationError
	return errors.As(err, &v)
}

// CycleError reports models whose ancestry loops back on itself.
type CycleError struct {
	Models []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return "extras: cyclic ancestry between " + strings.Join(e.Models, ", ")
}

// Is reports whether the target is ErrCyclicAncestry.
func (e *CycleError) Is(target error) bool {
	return target == ErrCyclicAncestry
}
