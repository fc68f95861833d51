package domain

import "errors"

// Failure kinds. Adapters attach one of these to every error they return.
var (
	ErrDaemonUnavailable = errors.New("daemon unavailable")
	ErrNotFound          = errors.New("not found")
	ErrImageNotFound     = errors.New("image not found")
	ErrOperationFailed   = errors.New("operation failed")
	ErrValidation        = errors.New("validation error")
)

// Error carries the failed operation, its kind and the daemon's own error.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError wraps err as a failure of kind in operation op.
func NewError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf returns the failure kind of err, or nil when err is untyped.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrImageNotFound, ErrOperationFailed, ErrDaemonUnavailable} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
