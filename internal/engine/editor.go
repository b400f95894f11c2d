// Package engine is the interactive editing core: it owns the scene, the
// selection, the viewport and the tool state machine for one editing session.
// An Editor is not safe for concurrent use; callers serialize input events.
package engine

import (
	"errors"
	"fmt"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/catalog"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/scene"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/selection"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/typeid"
)

var (
	ErrUnsupportedShape = errors.New("operation not supported for this element")
	ErrGestureActive    = errors.New("a gesture is in progress")
)

// AbilityCatalog resolves ability refs to their definitions.
type AbilityCatalog interface {
	Lookup(key string) (*catalog.AbilityDefinition, bool)
}

type EventType string

const (
	EventDocument  EventType = "document"
	EventSelection EventType = "selection"
	EventOverlay   EventType = "overlay"
	EventTool      EventType = "tool"
	EventViewport  EventType = "viewport"
	EventCatalog   EventType = "catalog"
)

// Event describes what changed. Change is set for document events.
type Event struct {
	Type   EventType
	Change scene.ChangeKind
}

type Listener func(Event)

type Editor struct {
	scene     *scene.Scene
	selection *selection.Selection
	viewport  *Viewport
	catalog   AbilityCatalog

	tool    Tool
	gesture *gesture

	listeners map[int]Listener
	nextID    int
}

// NewEditor creates an editor over a copy of doc. A nil catalog makes every
// lookup miss, so generic dimension ranges apply.
func NewEditor(cat AbilityCatalog, doc *document.Document) *Editor {
	if doc == nil {
		doc = document.NewEmptyDocument(typeid.NewDocumentID(), "Untitled", "")
	}
	e := &Editor{
		scene:     scene.New(doc),
		selection: selection.New(),
		viewport:  NewViewport(document.CanvasSize, document.CanvasSize),
		catalog:   cat,
		tool:      Tool{Kind: ToolSelect},
		listeners: make(map[int]Listener),
	}
	e.viewport.Side = e.scene.Document().Side
	e.scene.Subscribe(e.onSceneChange)
	return e
}

func (e *Editor) onSceneChange(kind scene.ChangeKind, doc *document.Document) {
	e.viewport.Side = doc.Side
	pruned := e.selection.Prune(doc)
	e.emit(Event{Type: EventDocument, Change: kind})
	if pruned {
		e.emit(Event{Type: EventSelection})
	}
}

// Subscribe registers l and returns a function that removes it.
func (e *Editor) Subscribe(l Listener) func() {
	id := e.nextID
	e.nextID++
	e.listeners[id] = l
	return func() { delete(e.listeners, id) }
}

func (e *Editor) emit(ev Event) {
	for _, l := range e.listeners {
		l(ev)
	}
}

func (e *Editor) lookup(ref string) *catalog.AbilityDefinition {
	if e.catalog == nil || ref == "" {
		return nil
	}
	def, ok := e.catalog.Lookup(ref)
	if !ok {
		return nil
	}
	return def
}

// SetCatalog swaps the ability catalog. Document, history, selection, tool and
// viewport are kept; geometry is not re-constrained until it is next edited.
func (e *Editor) SetCatalog(cat AbilityCatalog) error {
	if e.gesture != nil {
		return ErrGestureActive
	}
	e.catalog = cat
	e.emit(Event{Type: EventCatalog})
	return nil
}

// Document returns the live document. Callers must not mutate it.
func (e *Editor) Document() *document.Document { return e.scene.Document() }

func (e *Editor) Scene() *scene.Scene             { return e.scene }
func (e *Editor) Selection() *selection.Selection { return e.selection }
func (e *Editor) Viewport() *Viewport             { return e.viewport }
func (e *Editor) Tool() Tool                      { return e.tool }

// State reports the current tool state.
func (e *Editor) State() StateKind {
	if e.gesture == nil {
		return StateIdle
	}
	return e.gesture.state
}

// DocumentJSON encodes the live document.
func (e *Editor) DocumentJSON() ([]byte, error) {
	return document.Marshal(e.scene.Document())
}

// LoadDocument replaces the document from persisted JSON and resets history.
// On error the current document is left untouched.
func (e *Editor) LoadDocument(data []byte) error {
	doc, err := document.Parse(data)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	e.replace(doc)
	return nil
}

// NewDocument starts an empty document and resets history.
func (e *Editor) NewDocument(name, mapRef string) {
	e.replace(document.NewEmptyDocument(typeid.NewDocumentID(), name, mapRef))
}

func (e *Editor) replace(doc *document.Document) {
	e.abort()
	e.selection.Clear()
	e.scene.Load(doc)
	e.emit(Event{Type: EventSelection})
}

// SetTool switches the active tool, discarding any gesture in progress.
func (e *Editor) SetTool(t Tool) {
	e.abort()
	if t.Kind == "" {
		t.Kind = ToolSelect
	}
	e.tool = t
	e.emit(Event{Type: EventTool})
}

// Resize updates the container size of the viewport.
func (e *Editor) Resize(width, height float64) {
	e.viewport.Resize(width, height)
	e.emit(Event{Type: EventViewport})
}

// Undo and Redo are ignored while a gesture is in progress.
func (e *Editor) Undo() bool {
	if e.gesture != nil {
		return false
	}
	return e.scene.Undo()
}

func (e *Editor) Redo() bool {
	if e.gesture != nil {
		return false
	}
	return e.scene.Redo()
}

// DeleteSelection removes every selected element as one history entry.
func (e *Editor) DeleteSelection() int {
	if e.gesture != nil || e.selection.Len() == 0 {
		return 0
	}
	return e.scene.RemoveElements(e.selection.IDs())
}

// FlipSide toggles the active side.
func (e *Editor) FlipSide() {
	if e.gesture != nil {
		return
	}
	e.scene.SetSide(e.scene.Document().Side.Opposite())
	e.emit(Event{Type: EventViewport})
}
