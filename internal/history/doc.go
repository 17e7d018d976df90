// Package history provides bounded undo/redo for user actions.
//
// Two flavours exist:
//
// # Stack
//
// Stack is a command log. Each Entry carries a pair of closures that
// reverse and re-apply one user action; the stack never looks at what the
// closures do.
//
//	h := history.NewStack(25)
//	h.Push(history.Entry{Label: "toggle", Undo: off, Redo: on})
//	h.Undo()
//	h.Redo()
//
// # Snapshots
//
// Snapshots keeps whole values instead of closures. Stores whose state is a
// small document (labels, links) commit a new value per edit and step back
// and forth between values.
//
// Both cap the number of steps kept. The oldest step is dropped silently
// once the cap is exceeded, and that applies on redo as well as on push.
package history
