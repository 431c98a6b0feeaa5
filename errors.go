package mazepath

import "errors"

var (
	// ErrNotFound is returned when a node, edge or path was never inserted.
	// It usually means the level layout is malformed.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for arguments that can never be valid,
	// such as a non-positive sampling step or a self loop.
	ErrInvalidArgument = errors.New("invalid argument")
)
