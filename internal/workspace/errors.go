package workspace

import (
	"errors"
	"fmt"
)

// Kind classifies core failures. There are exactly two: a structurally
// invalid request (unknown id, bad length, out-of-range start, toggle
// already at target state) and a structurally valid request the actor may
// not perform (including an unresolvable token). The HTTP layer maps them
// to 400 and 403.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthorization
)

// Error is the only error type core operations return for caller mistakes.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func authorizationf(format string, args ...any) error {
	return &Error{Kind: KindAuthorization, Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindValidation
}

// IsAuthorization reports whether err is an authorization failure.
func IsAuthorization(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindAuthorization
}
