// Package interaction turns pointer gestures into pin mutations and reheat
// requests, and manages the hover detail popup.
//
// Dragging follows a single-pointer machine:
//
//	Idle --DragStart--> Dragging --DragMove*--> Dragging --DragEnd--> Idle
//
// DragStart pins the node where it stands and heats the engine. DragEnd
// leaves the pin in place so manually placed nodes stay put; only
// [Controller.TogglePin] frees a node.
//
// [Popups] shows node details on hover and hides them after a delay. The hide
// is a cancellable task from a [Scheduler] keyed by node id.
package interaction
