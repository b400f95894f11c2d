package engine

import "strings"

// KeyEvent carries a DOM-style key name plus modifiers.
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	Meta  bool   `json:"meta,omitempty"`
	Shift bool   `json:"shift,omitempty"`
}

// KeyDown handles editor shortcuts and reports whether the key was consumed.
// Only Escape is honoured while a gesture is active.
func (e *Editor) KeyDown(ev KeyEvent) bool {
	if ev.Key == "Escape" {
		return e.escape()
	}
	if e.gesture != nil {
		return false
	}
	mod := ev.Ctrl || ev.Meta
	switch {
	case ev.Key == "Delete" || ev.Key == "Backspace":
		return e.DeleteSelection() > 0
	case ev.Key == "Tab":
		e.FlipSide()
		return true
	case mod && strings.EqualFold(ev.Key, "z"):
		if ev.Shift {
			return e.Redo()
		}
		return e.Undo()
	case mod && strings.EqualFold(ev.Key, "y"):
		return e.Redo()
	}
	return false
}

// escape discards the active gesture, or clears the selection when idle.
func (e *Editor) escape() bool {
	if e.abort() {
		return true
	}
	if e.selection.Len() == 0 {
		return false
	}
	e.selection.Clear()
	e.emit(Event{Type: EventSelection})
	return true
}
