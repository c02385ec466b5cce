package types

import "fmt"

// UnsupportedFormatError means the detector could not classify the input as
// any known playlist format. Not retryable with the same file.
type UnsupportedFormatError struct {
	Hint string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("unsupported playlist format (%s)", e.Hint)
	}
	return "unsupported playlist format"
}

// MalformedFileError means the input was classified but could not be parsed.
type MalformedFileError struct {
	Format string
	Reason string
}

func (e *MalformedFileError) Error() string {
	return fmt.Sprintf("malformed %s file: %s", e.Format, e.Reason)
}

// ValidationError means a caller-supplied parameter violates a documented
// constraint.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError means a referenced library, track, playlist or folder id
// does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}
