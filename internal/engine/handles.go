package engine

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/catalog"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/constraint"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
)

type HandleKind string

const (
	HandleRadius      HandleKind = "radius"
	HandleInnerRadius HandleKind = "innerRadius"
	HandlePoint       HandleKind = "point"
	HandleGuidedPoint HandleKind = "guidedPoint"
	HandleSize        HandleKind = "size"
	HandleRotate      HandleKind = "rotate"
)

const (
	// HandleHitRadius is the pick distance in screen pixels.
	HandleHitRadius    = 8.0
	rotateHandleOffset = 24.0
)

// Handle is a draggable control point in document space.
type Handle struct {
	Kind  HandleKind `json:"kind"`
	Index int        `json:"index,omitempty"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
}

// handlesFor lists the handles of el. Fixed-size dimensions get none.
func (e *Editor) handlesFor(el *document.Element) []Handle {
	switch el.Kind {
	case document.KindAbility:
		return e.abilityHandles(el)
	case document.KindDrawing:
		return drawingHandles(el)
	}
	return nil
}

func (e *Editor) abilityHandles(el *document.Element) []Handle {
	a := el.Ability
	def := e.lookup(a.AbilityRef)
	var hs []Handle
	switch a.Shape {
	case document.AbilityArea:
		if !catalog.IsFixedSize(def, catalog.DimRadius) {
			hs = append(hs, Handle{Kind: HandleRadius, X: el.X + a.Radius, Y: el.Y})
		}
		if a.InnerRadius > 0 && !catalog.IsFixedSize(def, catalog.DimInnerRadius) {
			hs = append(hs, Handle{Kind: HandleInnerRadius, X: el.X, Y: el.Y + a.InnerRadius})
		}
	case document.AbilityWall, document.AbilityPath, document.AbilityCurvedWall:
		if !catalog.IsFixedSize(def, catalog.LengthDimension(a.Shape)) {
			hs = append(hs, pointHandles(el, HandlePoint, a.Points)...)
		}
	case document.AbilityGuidedPath:
		if !catalog.IsFixedSize(def, catalog.LengthDimension(a.Shape)) {
			hs = append(hs, pointHandles(el, HandleGuidedPoint, a.GuidedPoints)...)
		}
	}
	return hs
}

func pointHandles(el *document.Element, kind HandleKind, points []float64) []Handle {
	n := constraint.PointCount(points)
	hs := make([]Handle, 0, n)
	for i := 0; i < n; i++ {
		p := constraint.Point(points, i)
		hs = append(hs, Handle{Kind: kind, Index: i, X: el.X + p.X, Y: el.Y + p.Y})
	}
	return hs
}

func drawingHandles(el *document.Element) []Handle {
	d := el.Drawing
	switch d.Shape {
	case document.DrawLine, document.DrawArrow:
		return pointHandles(el, HandlePoint, d.Points)
	case document.DrawCircle:
		return []Handle{{Kind: HandleRadius, X: el.X + d.Radius, Y: el.Y}}
	case document.DrawVisionCone:
		rad := el.Rotation * math.Pi / 180
		return []Handle{{Kind: HandleRadius, X: el.X + d.Radius*math.Cos(rad), Y: el.Y + d.Radius*math.Sin(rad)}}
	case document.DrawRectangle, document.DrawIcon, document.DrawImage:
		m := ElementTransform(el.X, el.Y, 1, 1, el.Rotation)
		sx, sy := scaleOf(el)
		cx, cy := m.TransformPoint(d.Width*sx/2, d.Height*sy/2)
		rx, ry := m.TransformPoint(0, -d.Height*sy/2-rotateHandleOffset)
		return []Handle{
			{Kind: HandleSize, X: cx, Y: cy},
			{Kind: HandleRotate, X: rx, Y: ry},
		}
	}
	return nil
}

func scaleOf(el *document.Element) (float64, float64) {
	sx, sy := el.ScaleX, el.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

// hitHandle finds the handle of the primary selection nearest to the point
// within HandleHitRadius screen pixels.
func (e *Editor) hitHandle(x, y float64) (*document.Element, Handle, bool) {
	el := e.primaryElement()
	if el == nil {
		return nil, Handle{}, false
	}
	limit := HandleHitRadius / e.viewport.Scale()
	best, found := Handle{}, false
	bestDist := math.Inf(1)
	for _, h := range e.handlesFor(el) {
		d := math.Hypot(h.X-x, h.Y-y)
		if d <= limit && d < bestDist {
			best, bestDist, found = h, d, true
		}
	}
	return el, best, found
}

func (e *Editor) beginHandleDrag(el *document.Element, h Handle, x, y float64) {
	e.gesture = &gesture{
		state:  StateDraggingHandle,
		startX: x, startY: y,
		draft:    el.Clone(),
		original: el.Clone(),
		handle:   h,
	}
	e.emit(Event{Type: EventOverlay})
}

// dragHandle applies a handle drag to the draft, constraining it live.
func (e *Editor) dragHandle(g *gesture, x, y float64) {
	el := g.draft
	local := r2.Vec{X: x - el.X, Y: y - el.Y}
	switch el.Kind {
	case document.KindAbility:
		e.dragAbilityHandle(el.Ability, g.handle, local)
	case document.KindDrawing:
		dragDrawingHandle(el, g.handle, x, y, local)
	}
}

func (e *Editor) dragAbilityHandle(a *document.AbilityAnnotation, h Handle, local r2.Vec) {
	def := e.lookup(a.AbilityRef)
	switch h.Kind {
	case HandleRadius:
		a.Radius = constraint.ClampRadius(r2.Vec{}, local,
			catalog.MinDimension(def, catalog.DimRadius), catalog.MaxDimension(def, catalog.DimRadius))
		if a.InnerRadius > a.Radius {
			a.InnerRadius = a.Radius
		}
	case HandleInnerRadius:
		hi := math.Min(catalog.MaxDimension(def, catalog.DimInnerRadius), a.Radius)
		lo := math.Min(catalog.MinDimension(def, catalog.DimInnerRadius), hi)
		a.InnerRadius = constraint.ClampRadius(r2.Vec{}, local, lo, hi)
	case HandlePoint:
		if h.Index >= constraint.PointCount(a.Points) {
			return
		}
		maxLen := catalog.MaxDimension(def, catalog.DimLength)
		if a.Shape == document.AbilityCurvedWall || constraint.PointCount(a.Points) != 2 {
			constraint.SetPoint(a.Points, h.Index, constraint.ClampCurvePoint(a.Points, h.Index, local, maxLen))
			return
		}
		fixed := constraint.Point(a.Points, 1-h.Index)
		constraint.SetPoint(a.Points, h.Index, constraint.ClampSegmentEnd(fixed, local,
			catalog.MinDimension(def, catalog.DimLength), maxLen))
	case HandleGuidedPoint:
		if h.Index >= constraint.PointCount(a.GuidedPoints) {
			return
		}
		maxLen := catalog.MaxDimension(def, catalog.DimDistance)
		constraint.SetPoint(a.GuidedPoints, h.Index, constraint.ClampCurvePoint(a.GuidedPoints, h.Index, local, maxLen))
	}
}

func dragDrawingHandle(el *document.Element, h Handle, x, y float64, local r2.Vec) {
	d := el.Drawing
	sx, sy := scaleOf(el)
	switch h.Kind {
	case HandlePoint:
		if h.Index < constraint.PointCount(d.Points) {
			constraint.SetPoint(d.Points, h.Index, r2.Vec{X: local.X / sx, Y: local.Y / sy})
		}
	case HandleRadius:
		d.Radius = r2.Norm(local)
		if d.Shape == document.DrawVisionCone && d.Radius > 0 {
			el.Rotation = math.Atan2(local.Y, local.X) * 180 / math.Pi
		}
	case HandleSize:
		lx, ly := ElementTransform(el.X, el.Y, 1, 1, el.Rotation).Invert().TransformPoint(x, y)
		d.Width = 2 * math.Abs(lx) / sx
		d.Height = 2 * math.Abs(ly) / sy
	case HandleRotate:
		el.Rotation = math.Atan2(local.Y, local.X)*180/math.Pi + 90
	}
}

func (e *Editor) beginMove(id string, x, y float64) {
	el, _ := e.scene.Document().Find(id)
	if el == nil {
		return
	}
	e.gesture = &gesture{
		state:  StateMoving,
		startX: x, startY: y,
		draft:    el.Clone(),
		original: el.Clone(),
	}
	e.emit(Event{Type: EventOverlay})
}

// commitEdit writes a dragged or moved draft back as a single update.
func (e *Editor) commitEdit(g *gesture) {
	el := g.draft
	if el.Kind == document.KindAbility {
		e.constrainAbility(el.Ability)
	}
	if elementsEqual(el, g.original) {
		return
	}
	// fails only when the element vanished mid-gesture
	_ = e.scene.UpdateElement(el.ID, document.PatchFrom(el))
}
