package domainerr

import "errors"

var (
	// ErrNotFound is returned when a lookup by identifier yields no row.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the actor lacks the required permission
	// or is not the owner of the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized is returned for missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError signals malformed or semantically invalid input: a missing
// required field, an inverted financial bound, a duplicate unique key, or a
// referenced entity that does not exist. Unique-constraint violations raised
// by the store at commit time are surfaced as this same type.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidation builds a ValidationError with the given message.
func NewValidation(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
