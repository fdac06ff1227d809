// Error taxonomy for the order service.
//
// Every failure that crosses the service boundary is tagged with one of the
// kinds below. The wrapped cause stays internal: it is logged in full by the
// workflow, then deliberately discarded by the transport mapper so that
// persistence and remote-service internals never leak to callers.
package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error for boundary mapping.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound: the requested order id does not exist.
	KindNotFound
	// KindValidation: malformed input, or any failure inside the
	// create-order validate/aggregate/persist chain.
	KindValidation
	// KindRemoteUnavailable: the product catalog could not be reached.
	KindRemoteUnavailable
)

// Error is a tagged service error. Msg is safe to show to callers; the
// wrapped cause is internal-only.
type Error struct {
	Kind  Kind
	Msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.cause }

// E builds a tagged error wrapping an internal cause. cause may be nil.
func E(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, cause: cause}
}

// KindOf extracts the kind of an error, or KindUnknown for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// PublicMessage returns the caller-safe message of a tagged error. Untagged
// errors get a generic message so internals never cross the boundary.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}

func NotFoundf(format string, args ...any) *Error {
	return E(KindNotFound, fmt.Sprintf(format, args...), nil)
}

func Validationf(format string, args ...any) *Error {
	return E(KindValidation, fmt.Sprintf(format, args...), nil)
}

func RemoteUnavailable(cause error) *Error {
	return E(KindRemoteUnavailable, "product catalog unavailable", cause)
}
