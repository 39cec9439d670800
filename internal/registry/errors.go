package registry

import "errors"

// Numeric codes carried by registry errors.
const (
	CodeUnauthorized = 401
	CodeNotFound     = 404
	CodeConflict     = 409
)

// Error is a failed registry operation. The registry is unchanged after any Error.
type Error struct {
	Code    int
	message string
}

func (e *Error) Error() string {
	return e.message
}

var (
	ErrUnauthorized = &Error{Code: CodeUnauthorized, message: "sender is not the creator of this program"}
	ErrNotFound     = &Error{Code: CodeNotFound, message: "program or enrollment not found"}
	ErrConflict     = &Error{Code: CodeConflict, message: "program already purchased by this user"}
)

// CodeOf returns the numeric code of a registry error, or 0 if err is nil or
// does not come from the registry.
func CodeOf(err error) int {
	var regErr *Error
	if errors.As(err, &regErr) {
		return regErr.Code
	}
	return 0
}
