package graph

import "errors"

var (
	// ErrEmptyID indicates a node without an id.
	ErrEmptyID = errors.New("graph: node id is empty")

	// ErrDuplicateID indicates two nodes sharing an id.
	ErrDuplicateID = errors.New("graph: duplicate node id")

	// ErrInvalidCoordinate indicates a NaN or infinite position or pin.
	ErrInvalidCoordinate = errors.New("graph: coordinate is not finite")
)
