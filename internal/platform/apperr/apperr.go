// Package apperr defines the application error taxonomy shared by all
// services. Handlers map kinds to HTTP status codes; messages are
// user-visible and must name the precondition that failed.
package apperr

import "errors"

type Kind int

const (
	// KindNotFound covers resources that are absent or invisible to the
	// caller. Absence and lack of access are deliberately indistinguishable
	// so that existence of an organization or invitation never leaks.
	KindNotFound Kind = iota + 1
	// KindForbidden means the resource is known to the caller but the action
	// exceeds their role.
	KindForbidden
	// KindBadRequest means an operation-specific precondition failed.
	KindBadRequest
	// KindConflict is a storage constraint violation surfaced under a race.
	// Services translate it before it reaches a handler.
	KindConflict
)

// Error carries a kind and a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// NotFound returns a KindNotFound error with the given message.
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }

// Forbidden returns a KindForbidden error with the given message.
func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Message: msg} }

// BadRequest returns a KindBadRequest error with the given message.
func BadRequest(msg string) error { return &Error{Kind: KindBadRequest, Message: msg} }

// Conflict returns a KindConflict error with the given message.
func Conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }

// KindOf returns the kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }
