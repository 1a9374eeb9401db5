// Package errcode defines the general-purpose error code taxonomy
// shared by every game and engine implementation, plus an Error type
// that pairs a code with an optional formatted message and cause.
package errcode

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code is an unsigned error code. General codes occupy a reserved
// prefix; game- and engine-specific codes begin at Offset.
type Code uint32

// General error codes, in the order spec.md §3 enumerates them.
const (
	OK Code = iota
	OutOfMemory
	InvalidInput
	InvalidPlayer
	InvalidMove
	InvalidOptions
	InvalidState
	InvalidLegacy // supplemented from original_source's enum ERR; not in spec.md's list but not excluded by it either
	StateUnrecoverable
	StateCorrupted
	FeatureUnsupported
	MissingHiddenState
	UnstablePosition
	Retry
	CustomAny

	// Offset is where game- and engine-specific error codes begin, so
	// host code can dispatch by range.
	Offset
)

var generalStrings = map[Code]string{
	OK:                 "ok",
	OutOfMemory:        "out of memory",
	InvalidInput:       "invalid input",
	InvalidPlayer:      "invalid player",
	InvalidMove:        "invalid move",
	InvalidOptions:     "invalid options",
	InvalidState:       "invalid state",
	InvalidLegacy:      "invalid legacy token",
	StateUnrecoverable: "state unrecoverable",
	StateCorrupted:     "state corrupted",
	FeatureUnsupported: "feature unsupported",
	MissingHiddenState: "missing hidden state",
	UnstablePosition:   "unstable position",
	Retry:              "retry",
	CustomAny:          "custom error, see last-error string",
}

// GeneralString returns the general error string for a code, or ""
// if the code is not a general error (i.e. it is >= Offset).
func GeneralString(c Code) string {
	return generalStrings[c]
}

// IsGeneral reports whether c falls in the reserved general-error
// prefix (as opposed to a game/engine-specific code >= Offset).
func IsGeneral(c Code) bool {
	_, ok := generalStrings[c]
	return ok
}

// Error pairs a Code with an optional human-readable message and an
// optional wrapped cause, implementing the standard error interface
// so it composes with errors.Is/errors.As and with pkg/errors'
// Wrap/Cause chain.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// New builds an Error from a code alone, using the general error
// string (if any) as its message.
func New(c Code) *Error {
	return &Error{Code: c, Message: GeneralString(c)}
}

// Newf builds an Error with a formatted message, mirroring spec.md's
// rerrorf helper: Formatf(pbuf, ec, fmt, args...) with a non-empty
// fmt is equivalent to assigning *pbuf = Newf(ec, fmt, args...).Error().
func Newf(c Code, format string, args ...any) *Error {
	return &Error{Code: c, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that carries cause as its underlying fault,
// using github.com/pkg/errors so the cause's stack trace survives.
func Wrap(c Code, cause error, message string) *Error {
	return &Error{Code: c, Message: message, cause: errors.Wrap(cause, message)}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("errcode %d", e.Code)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code, so
// callers can write errors.Is(err, errcode.New(errcode.InvalidMove)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// CodeOf extracts the Code from err without an explicit type
// assertion at every call site: nil maps to OK, a non-*Error maps to
// CustomAny (an unrecognized error still has to go somewhere on the
// wire, the same role original_source's ERR_CUSTOM_ANY plays for
// errors that didn't originate from the ERR enum).
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return CustomAny
}

// Formatf mirrors spec.md's rerrorf: it assigns a formatted error
// string to *pbuf, or clears *pbuf when format is empty (the Go
// analogue of calling rerrorf with a null format to release the
// slot). It always returns ec unchanged, matching rerrorf's calling
// convention of "return whatever error code you were going to return
// anyway, and let this helper manage the string side effect".
func Formatf(pbuf *string, ec Code, format string, args ...any) Code {
	if format == "" {
		*pbuf = ""
		return ec
	}
	*pbuf = fmt.Sprintf(format, args...)
	return ec
}

// Fatal reports whether a code leaves the instance unusable beyond a
// call to Destroy, per spec.md §7's recovery rules.
func Fatal(c Code) bool {
	switch c {
	case StateUnrecoverable, StateCorrupted, OutOfMemory:
		return true
	default:
		return false
	}
}
