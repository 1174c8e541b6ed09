package nodeclient

import "errors"

var (
	// ErrNullNodeAddress ...
	ErrNullNodeAddress = errors.New("node address must not be null")
	// ErrInvalidTimeout ...
	ErrInvalidTimeout = errors.New("timeout must not be negative")
	// ErrMalformedMessage is returned when a node response is not valid
	// protobuf.
	ErrMalformedMessage = errors.New("malformed message")
	// ErrMissingField ...
	ErrMissingField = errors.New("missing required field")
)
