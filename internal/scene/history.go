package scene

import "github.com/MauAlvarado43/open-valobook-sub000/internal/document"

// MaxHistory caps the number of stored snapshots; the oldest is dropped first.
const MaxHistory = 50

// History is a snapshot stack over a document. Snapshots are deep copies and
// are never handed out without cloning.
type History struct {
	snapshots []*document.Document
	index     int
}

// NewHistory starts a history holding a single snapshot of doc at index 0.
func NewHistory(doc *document.Document) *History {
	return &History{snapshots: []*document.Document{doc.Clone()}}
}

// Push drops any redo tail, appends a copy of doc and moves the index to it.
func (h *History) Push(doc *document.Document) {
	h.snapshots = append(h.snapshots[:h.index+1], doc.Clone())
	if over := len(h.snapshots) - MaxHistory; over > 0 {
		h.snapshots = append(h.snapshots[:0], h.snapshots[over:]...)
	}
	h.index = len(h.snapshots) - 1
}

// Undo steps back and returns a copy of the snapshot, or nil at the oldest entry.
func (h *History) Undo() *document.Document {
	if !h.CanUndo() {
		return nil
	}
	h.index--
	return h.snapshots[h.index].Clone()
}

// Redo steps forward and returns a copy of the snapshot, or nil at the newest entry.
func (h *History) Redo() *document.Document {
	if !h.CanRedo() {
		return nil
	}
	h.index++
	return h.snapshots[h.index].Clone()
}

// Reset replaces the whole history with a single snapshot of doc.
func (h *History) Reset(doc *document.Document) {
	h.snapshots = []*document.Document{doc.Clone()}
	h.index = 0
}

func (h *History) CanUndo() bool { return h.index > 0 }
func (h *History) CanRedo() bool { return h.index < len(h.snapshots)-1 }
func (h *History) Index() int    { return h.index }
func (h *History) Len() int      { return len(h.snapshots) }
