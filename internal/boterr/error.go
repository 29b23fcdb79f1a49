package boterr

import (
	"errors"
	"fmt"
)

// Kinds of errors. Check them with errors.Is.
var (
	ErrGit        = errors.New("git command failed")
	ErrHTTP       = errors.New("http request failed")
	ErrStatusFile = errors.New("failed to read status file")
	ErrConfig     = errors.New("invalid configuration")
	ErrIO         = errors.New("failed to read/write file")
)

// Error is the error type of ggbot.
//
// Please use errors.Is or errors.Unwrap if you want to know what kind of error is it.
type Error struct {
	kind    error
	from    error
	message string
}

// New creates a new Error.
func New(kind error, from error, format string, args ...interface{}) Error {
	msg := fmt.Sprintf(format, args...)
	if from != nil {
		if msg != "" {
			msg += ": "
		}
		msg += from.Error()
	}

	return Error{
		kind:    kind,
		from:    from,
		message: msg,
	}
}

// Error implements error interface.
func (e Error) Error() string {
	return e.message
}

// Unwrap implement for errors.Unwrap.
func (e Error) Unwrap() error {
	return e.from
}

// Is implement for errors.Is.
func (e Error) Is(err error) bool {
	return e.kind == err
}
