package interaction

import "errors"

var (
	ErrUnknownNode     = errors.New("interaction: unknown node")
	ErrAlreadyDragging = errors.New("interaction: drag already in progress")
	ErrNotDragging     = errors.New("interaction: node is not being dragged")
)
