package ggbot

import (
	"errors"
)

// The errors in this library can check the error type via errors.Is function.
var (
	// ErrUnknownState is a error for if a state string in a status file was not a known state.
	ErrUnknownState = errors.New("unknown state")

	// ErrUnsupportedSchema is a error for if a status file was written by an incompatible bot.
	ErrUnsupportedSchema = errors.New("unsupported status schema version")

	// ErrInvalidRecord is a error for if failed to parse log because it was invalid format.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrIO is a error for if failed to read/write log.
	ErrIO = errors.New("failed to read/write log")
)
