package skein

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrSchema indicates a type or field was used without being registered,
	// or could not be registered. It signals a programmer error.
	ErrSchema = errors.New("schema error")

	// ErrFormat indicates the document does not follow the node grammar.
	ErrFormat = errors.New("format error")

	// ErrTypeResolution indicates a discriminator could not be mapped to a
	// registered type, or mapped to the wrong one.
	ErrTypeResolution = errors.New("type resolution error")

	// ErrCoercion indicates a raw token cannot be converted to a field's
	// declared type.
	ErrCoercion = errors.New("coercion error")

	// ErrUnmarshal indicates the codec failed to parse input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to render output data.
	ErrMarshal = errors.New("marshal failed")
)

// SchemaError reports a registry misuse.
type SchemaError struct {
	Type   string // Go type or discriminator involved
	Field  string // Field name, if any
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s.%s: %s", ErrSchema.Error(), e.Type, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrSchema.Error(), e.Type, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// FormatError reports a document that violates the node grammar.
type FormatError struct {
	Path   string // Location in the document, e.g. "[0].Properties.Address"
	Reason string
}

func (e *FormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s at %s: %s", ErrFormat.Error(), e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrFormat.Error(), e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// TypeResolutionError reports an unknown or mismatched discriminator.
type TypeResolutionError struct {
	Name     string // Discriminator found in the document
	Expected string // Expected type name, when a specific type was required
	Reason   string
}

func (e *TypeResolutionError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%s: %s: got %q, want %q", ErrTypeResolution.Error(), e.Reason, e.Name, e.Expected)
	}
	return fmt.Sprintf("%s: %s: %q", ErrTypeResolution.Error(), e.Reason, e.Name)
}

func (e *TypeResolutionError) Unwrap() error {
	return ErrTypeResolution
}

// CoercionError reports a token that does not fit a field's declared type.
type CoercionError struct {
	Path  string    // Location in the document
	Field string    // Field name
	Type  FieldType // Declared type of the field
	Token string    // Kind of the offending token
	Cause error     // Parse failure, if any
}

func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("%s: field %s (%s) cannot take %s token", ErrCoercion.Error(), e.Field, e.Type, e.Token)
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *CoercionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrCoercion, e.Cause}
	}
	return []error{ErrCoercion}
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func newSchemaError(typ, field, reason string) error {
	return &SchemaError{Type: typ, Field: field, Reason: reason}
}

func newFormatError(path, format string, args ...any) error {
	return &FormatError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
