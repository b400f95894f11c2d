// Package scene owns the live document and its undo history. Every mutation
// goes through a Scene and produces exactly one snapshot.
package scene

import (
	"errors"
	"fmt"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
)

var (
	ErrElementNotFound = errors.New("element not found")
	ErrDuplicateID     = errors.New("duplicate element id")
	ErrNilElement      = errors.New("nil element")
)

type ChangeKind string

const (
	ChangeAdd    ChangeKind = "add"
	ChangeUpdate ChangeKind = "update"
	ChangeRemove ChangeKind = "remove"
	ChangeClear  ChangeKind = "clear"
	ChangeSide   ChangeKind = "side"
	ChangeUndo   ChangeKind = "undo"
	ChangeRedo   ChangeKind = "redo"
	ChangeLoad   ChangeKind = "load"
)

// Listener is notified after the live document has been replaced or mutated.
type Listener func(kind ChangeKind, doc *document.Document)

type Scene struct {
	doc       *document.Document
	history   *History
	listeners map[int]Listener
	nextID    int
}

// New creates a scene over a copy of doc with a single history entry.
func New(doc *document.Document) *Scene {
	live := doc.Clone()
	return &Scene{
		doc:       live,
		history:   NewHistory(live),
		listeners: make(map[int]Listener),
	}
}

// Document returns the live document. Callers must not mutate it.
func (s *Scene) Document() *document.Document {
	return s.doc
}

// Snapshot returns a deep copy of the live document.
func (s *Scene) Snapshot() *document.Document {
	return s.doc.Clone()
}

// Subscribe registers l and returns a function that removes it.
func (s *Scene) Subscribe(l Listener) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() { delete(s.listeners, id) }
}

func (s *Scene) commit(kind ChangeKind) {
	s.history.Push(s.doc)
	s.notify(kind)
}

func (s *Scene) notify(kind ChangeKind) {
	for _, l := range s.listeners {
		l(kind, s.doc)
	}
}

// AddElement appends a copy of e at the top of the z-order.
func (s *Scene) AddElement(e *document.Element) error {
	if e == nil {
		return ErrNilElement
	}
	if el, _ := s.doc.Find(e.ID); el != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
	}
	s.doc.Elements = append(s.doc.Elements, e.Clone())
	s.commit(ChangeAdd)
	return nil
}

// UpdateElement applies a partial patch to the element with the given id.
func (s *Scene) UpdateElement(id string, patch document.Patch) error {
	el, _ := s.doc.Find(id)
	if el == nil {
		return fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	patch.Apply(el)
	s.commit(ChangeUpdate)
	return nil
}

// RemoveElement deletes one element.
func (s *Scene) RemoveElement(id string) error {
	_, i := s.doc.Find(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	s.doc.Elements = append(s.doc.Elements[:i], s.doc.Elements[i+1:]...)
	s.commit(ChangeRemove)
	return nil
}

// RemoveElements deletes every listed element that exists as a single history
// entry and returns how many were removed. Nothing is recorded when none exist.
func (s *Scene) RemoveElements(ids []string) int {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := s.doc.Elements[:0]
	removed := 0
	for _, el := range s.doc.Elements {
		if _, ok := drop[el.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, el)
	}
	if removed == 0 {
		return 0
	}
	for i := len(kept); i < len(s.doc.Elements); i++ {
		s.doc.Elements[i] = nil
	}
	s.doc.Elements = kept
	s.commit(ChangeRemove)
	return removed
}

// Clear removes every element.
func (s *Scene) Clear() {
	s.doc.Elements = []*document.Element{}
	s.commit(ChangeClear)
}

// SetSide changes the active side.
func (s *Scene) SetSide(side document.Side) {
	s.doc.Side = side
	s.commit(ChangeSide)
}

// Undo restores the previous snapshot. It reports false at the oldest entry.
func (s *Scene) Undo() bool {
	doc := s.history.Undo()
	if doc == nil {
		return false
	}
	s.doc = doc
	s.notify(ChangeUndo)
	return true
}

// Redo restores the next snapshot. It reports false at the newest entry.
func (s *Scene) Redo() bool {
	doc := s.history.Redo()
	if doc == nil {
		return false
	}
	s.doc = doc
	s.notify(ChangeRedo)
	return true
}

// Load replaces the live document and resets history to a single snapshot.
func (s *Scene) Load(doc *document.Document) {
	s.doc = doc.Clone()
	s.history.Reset(s.doc)
	s.notify(ChangeLoad)
}

func (s *Scene) CanUndo() bool     { return s.history.CanUndo() }
func (s *Scene) CanRedo() bool     { return s.history.CanRedo() }
func (s *Scene) HistoryIndex() int { return s.history.Index() }
func (s *Scene) HistoryLen() int   { return s.history.Len() }
