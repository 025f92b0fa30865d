package ir

import "errors"

var (
	errInternal = errors.New("internal error")

	// ErrOutOfRange reports an array edge access outside [0, Count).
	ErrOutOfRange = errors.New("index out of range")

	// ErrNotRemovable reports a removal attempt on a non-nullable edge.
	ErrNotRemovable = errors.New("not removable")

	// ErrKeyNotFound reports an index lookup for a key with no entry.
	ErrKeyNotFound = errors.New("key not found")

	// ErrRootRemoval reports Remove on a node with no parent edge.
	ErrRootRemoval = errors.New("cannot remove root")
)
