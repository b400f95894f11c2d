package engine

import (
	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
)

type ToolKind string

const (
	ToolSelect     ToolKind = "select"
	ToolAgent      ToolKind = "agent"
	ToolAbility    ToolKind = "ability"
	ToolLine       ToolKind = "line"
	ToolArrow      ToolKind = "arrow"
	ToolCircle     ToolKind = "circle"
	ToolRectangle  ToolKind = "rectangle"
	ToolText       ToolKind = "text"
	ToolFreehand   ToolKind = "freehand"
	ToolTimerPath  ToolKind = "timer-path"
	ToolVisionCone ToolKind = "vision-cone"
	ToolIcon       ToolKind = "icon"
	ToolImage      ToolKind = "image"
)

// Tool is the active tool plus the parameters new elements are created with.
type Tool struct {
	Kind ToolKind `json:"kind"`
	// Ref names the agent, ability, icon or image placed by the tool.
	Ref string `json:"ref,omitempty"`
	// Shape is used for abilities missing from the catalog.
	Shape       document.AbilityShape `json:"shape,omitempty"`
	Color       string                `json:"color,omitempty"`
	StrokeWidth float64               `json:"strokeWidth,omitempty"`
	Text        string                `json:"text,omitempty"`
}

// placesOnce reports whether the tool reverts to select after one placement.
func (t Tool) placesOnce() bool {
	return t.Kind == ToolAgent || t.Kind == ToolAbility
}

type StateKind string

const (
	StateIdle           StateKind = "idle"
	StateCreating       StateKind = "creating"
	StateDraggingHandle StateKind = "dragging-handle"
	StateBoxSelecting   StateKind = "box-selecting"
	StatePanning        StateKind = "panning"
	StateMoving         StateKind = "moving"
)

type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// PointerEvent carries screen coordinates.
type PointerEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button Button  `json:"button"`
	Shift  bool    `json:"shift,omitempty"`
	Ctrl   bool    `json:"ctrl,omitempty"`
}

type WheelEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY"`
}

// gesture is the in-flight interaction. Drafts are private copies; the live
// document only changes when the gesture commits.
type gesture struct {
	state StateKind

	startX, startY float64
	lastSX, lastSY float64

	draft    *document.Element
	original *document.Element
	handle   Handle
	box      document.Rect

	// capped is set once a guided path rejected a point
	capped bool
}

// Overlay is the transient state a renderer draws on top of the document.
type Overlay struct {
	State   StateKind         `json:"state"`
	Draft   *document.Element `json:"draft,omitempty"`
	Box     *document.Rect    `json:"box,omitempty"`
	Handles []Handle          `json:"handles,omitempty"`
}

func (e *Editor) Overlay() Overlay {
	ov := Overlay{State: e.State()}
	if g := e.gesture; g != nil {
		ov.Draft = g.draft
		if g.state == StateBoxSelecting {
			box := g.box
			ov.Box = &box
		}
	}
	if el := e.primaryElement(); el != nil {
		if ov.Draft != nil && ov.Draft.ID == el.ID {
			el = ov.Draft
		}
		ov.Handles = e.handlesFor(el)
	}
	return ov
}

func (e *Editor) primaryElement() *document.Element {
	id := e.selection.Primary()
	if id == "" {
		return nil
	}
	el, _ := e.scene.Document().Find(id)
	return el
}

// PointerDown starts a gesture. It is ignored while another gesture is active.
func (e *Editor) PointerDown(ev PointerEvent) {
	if e.gesture != nil {
		return
	}
	if ev.Button == ButtonMiddle {
		e.gesture = &gesture{state: StatePanning, lastSX: ev.X, lastSY: ev.Y}
		e.emit(Event{Type: EventOverlay})
		return
	}
	if ev.Button != ButtonPrimary {
		return
	}

	x, y := e.viewport.ToDocument(ev.X, ev.Y)
	if e.tool.Kind != ToolSelect {
		e.beginCreate(x, y)
		return
	}
	if el, h, ok := e.hitHandle(x, y); ok {
		e.beginHandleDrag(el, h, x, y)
		return
	}
	if id := e.HitTest(x, y); id != "" {
		wasSelected := e.selection.Contains(id)
		e.selection.SelectExclusive(id)
		e.emit(Event{Type: EventSelection})
		if wasSelected {
			e.beginMove(id, x, y)
		}
		return
	}
	if ev.Shift {
		e.gesture = &gesture{
			state:  StateBoxSelecting,
			startX: x, startY: y,
			box: document.Rect{X: x, Y: y},
		}
		e.emit(Event{Type: EventOverlay})
		return
	}
	if e.selection.Len() > 0 {
		e.selection.Clear()
		e.emit(Event{Type: EventSelection})
	}
}

// PointerMove updates the active gesture.
func (e *Editor) PointerMove(ev PointerEvent) {
	g := e.gesture
	if g == nil {
		return
	}
	if g.state == StatePanning {
		e.viewport.PanBy(ev.X-g.lastSX, ev.Y-g.lastSY)
		g.lastSX, g.lastSY = ev.X, ev.Y
		e.emit(Event{Type: EventViewport})
		return
	}

	x, y := e.viewport.ToDocument(ev.X, ev.Y)
	switch g.state {
	case StateCreating:
		e.updateCreate(g, x, y)
	case StateDraggingHandle:
		e.dragHandle(g, x, y)
	case StateMoving:
		g.draft.X = g.original.X + (x - g.startX)
		g.draft.Y = g.original.Y + (y - g.startY)
	case StateBoxSelecting:
		g.box = document.RectFromCorners(g.startX, g.startY, x, y)
	}
	e.emit(Event{Type: EventOverlay})
}

// PointerUp applies the final pointer position and commits the gesture.
func (e *Editor) PointerUp(ev PointerEvent) {
	g := e.gesture
	if g == nil {
		return
	}
	e.PointerMove(ev)
	e.gesture = nil

	switch g.state {
	case StateCreating:
		e.commitCreate(g)
	case StateDraggingHandle, StateMoving:
		e.commitEdit(g)
	case StateBoxSelecting:
		e.selection.BoxSelect(e.scene.Document().Elements, g.box)
		e.emit(Event{Type: EventSelection})
	}
	e.emit(Event{Type: EventOverlay})
}

// Wheel zooms around the pointer by one notch.
func (e *Editor) Wheel(ev WheelEvent) {
	if e.viewport.ZoomAt(ev.X, ev.Y, ev.DeltaY) {
		e.emit(Event{Type: EventViewport})
	}
}

// abort drops the active gesture and its draft without touching history.
func (e *Editor) abort() bool {
	if e.gesture == nil {
		return false
	}
	e.gesture = nil
	e.emit(Event{Type: EventOverlay})
	return true
}
