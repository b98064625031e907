package connection

import "errors"

var (
	// ErrNotReady indicates the operation needs a live connection.
	ErrNotReady = errors.New("connection not ready")
	// ErrSuperseded indicates a newer configuration replaced the one the
	// operation started under; its result was discarded.
	ErrSuperseded = errors.New("superseded by a newer configuration")
)
