package engine

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/catalog"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/constraint"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/typeid"
)

const (
	DefaultText        = "Text"
	DefaultFontSize    = 20.0
	DefaultStrokeWidth = 3.0
	DefaultIconSize    = 32.0
	DefaultImageSize   = 128.0
	DefaultConeAngle   = 90.0

	// minimum distance between appended points of freehand and guided paths
	freehandStep = 2.0
	guidedStep   = 4.0
)

func (e *Editor) beginCreate(x, y float64) {
	e.gesture = &gesture{
		state:  StateCreating,
		startX: x, startY: y,
		draft: e.newElement(x, y),
	}
	e.emit(Event{Type: EventOverlay})
}

// newElement instantiates the tool's element at a document point.
func (e *Editor) newElement(x, y float64) *document.Element {
	t := e.tool
	el := &document.Element{X: x, Y: y, Color: t.Color}
	switch t.Kind {
	case ToolAgent:
		el.ID = typeid.NewAgentID()
		el.Kind = document.KindAgent
		el.Agent = &document.AgentMarker{AgentRef: t.Ref, Side: e.scene.Document().Side}
	case ToolAbility:
		el.ID = typeid.NewAbilityID()
		el.Kind = document.KindAbility
		el.Ability = e.newAbility(t)
	default:
		el.ID = typeid.NewDrawingID()
		el.Kind = document.KindDrawing
		el.Drawing = newDrawing(t)
	}
	return el
}

func (e *Editor) newAbility(t Tool) *document.AbilityAnnotation {
	def := e.lookup(t.Ref)
	shape := t.Shape
	if def != nil {
		shape = def.Shape
	}
	if shape == "" {
		shape = document.AbilityPoint
	}
	a := &document.AbilityAnnotation{AbilityRef: t.Ref, Shape: shape}
	if def != nil {
		a.Global = def.Global
		a.Tension = def.Tension
	}

	switch shape {
	case document.AbilityArea:
		a.Radius = catalog.DefaultDimension(def, catalog.DimRadius)
		if _, ok := catalog.DimensionValue(def, catalog.DimInnerRadius); ok {
			a.InnerRadius = catalog.DefaultDimension(def, catalog.DimInnerRadius)
		}
	case document.AbilityPoint:
		if v, ok := catalog.DimensionValue(def, catalog.DimRadius); ok {
			a.Radius = v
		}
	case document.AbilityWall, document.AbilityPath, document.AbilityCurvedWall:
		length := catalog.DefaultDimension(def, catalog.DimLength)
		a.Points = []float64{0, 0, length, 0}
	case document.AbilityGuidedPath:
		a.GuidedPoints = []float64{0, 0}
	}
	if v, ok := catalog.DimensionValue(def, catalog.DimWidth); ok {
		a.Width = v
	}
	if v, ok := catalog.DimensionValue(def, catalog.DimHeight); ok {
		a.Height = v
	}
	return a
}

func newDrawing(t Tool) *document.Drawing {
	d := &document.Drawing{Shape: drawingShape(t.Kind), StrokeWidth: t.StrokeWidth}
	if d.StrokeWidth <= 0 {
		d.StrokeWidth = DefaultStrokeWidth
	}
	switch d.Shape {
	case document.DrawLine, document.DrawArrow:
		d.Points = []float64{0, 0, 0, 0}
	case document.DrawFreehand, document.DrawTimerPath:
		d.Points = []float64{0, 0}
	case document.DrawText:
		d.Text = t.Text
		if d.Text == "" {
			d.Text = DefaultText
		}
		d.FontSize = DefaultFontSize
	case document.DrawVisionCone:
		d.Angle = DefaultConeAngle
	case document.DrawIcon:
		d.IconRef = t.Ref
		d.Width, d.Height = DefaultIconSize, DefaultIconSize
	case document.DrawImage:
		d.ImageRef = t.Ref
		d.Width, d.Height = DefaultImageSize, DefaultImageSize
	}
	return d
}

func drawingShape(k ToolKind) document.DrawingShape {
	switch k {
	case ToolLine:
		return document.DrawLine
	case ToolArrow:
		return document.DrawArrow
	case ToolCircle:
		return document.DrawCircle
	case ToolRectangle:
		return document.DrawRectangle
	case ToolText:
		return document.DrawText
	case ToolFreehand:
		return document.DrawFreehand
	case ToolTimerPath:
		return document.DrawTimerPath
	case ToolVisionCone:
		return document.DrawVisionCone
	case ToolIcon:
		return document.DrawIcon
	case ToolImage:
		return document.DrawImage
	}
	return document.DrawLine
}

// updateCreate recomputes the draft from the pointer delta since pointer-down.
func (e *Editor) updateCreate(g *gesture, x, y float64) {
	el := g.draft
	delta := r2.Vec{X: x - g.startX, Y: y - g.startY}
	switch el.Kind {
	case document.KindAgent:
		el.X, el.Y = x, y
	case document.KindAbility:
		e.updateAbilityDraft(g, el.Ability, delta)
	case document.KindDrawing:
		updateDrawingDraft(el, g, delta)
	}
}

func (e *Editor) updateAbilityDraft(g *gesture, a *document.AbilityAnnotation, delta r2.Vec) {
	def := e.lookup(a.AbilityRef)
	dist := r2.Norm(delta)
	switch a.Shape {
	case document.AbilityArea:
		if dist > 0 {
			a.Radius = constraint.ClampRadius(r2.Vec{}, delta,
				catalog.MinDimension(def, catalog.DimRadius), catalog.MaxDimension(def, catalog.DimRadius))
		}
	case document.AbilityWall, document.AbilityPath, document.AbilityCurvedWall:
		if dist > 0 {
			end := constraint.ClampSegmentEnd(r2.Vec{}, delta,
				catalog.MinDimension(def, catalog.DimLength), catalog.MaxDimension(def, catalog.DimLength))
			a.Points = []float64{0, 0, end.X, end.Y}
			a.IntermediatePoints = 0
		}
	case document.AbilityGuidedPath:
		if g.capped {
			return
		}
		n := constraint.PointCount(a.GuidedPoints)
		if n > 0 && r2.Norm(r2.Sub(delta, constraint.Point(a.GuidedPoints, n-1))) < guidedStep {
			return
		}
		var ok bool
		a.GuidedPoints, ok = constraint.AppendGuided(a.GuidedPoints, delta,
			catalog.MaxDimension(def, catalog.DimDistance))
		g.capped = !ok
	}
}

func updateDrawingDraft(el *document.Element, g *gesture, delta r2.Vec) {
	d := el.Drawing
	switch d.Shape {
	case document.DrawLine, document.DrawArrow:
		constraint.SetPoint(d.Points, 1, delta)
	case document.DrawCircle:
		d.Radius = r2.Norm(delta)
	case document.DrawVisionCone:
		d.Radius = r2.Norm(delta)
		if d.Radius > 0 {
			el.Rotation = math.Atan2(delta.Y, delta.X) * 180 / math.Pi
		}
	case document.DrawRectangle:
		el.X = g.startX + delta.X/2
		el.Y = g.startY + delta.Y/2
		d.Width = math.Abs(delta.X)
		d.Height = math.Abs(delta.Y)
	case document.DrawFreehand, document.DrawTimerPath:
		n := constraint.PointCount(d.Points)
		if n > 0 && r2.Norm(r2.Sub(delta, constraint.Point(d.Points, n-1))) < freehandStep {
			return
		}
		d.Points = append(d.Points, delta.X, delta.Y)
	}
}

func (e *Editor) commitCreate(g *gesture) {
	el := g.draft
	if el.Kind == document.KindAbility {
		e.constrainAbility(el.Ability)
	}
	if err := e.scene.AddElement(el); err != nil {
		slog.Warn("discarding created element", "id", el.ID, "error", err)
		return
	}
	e.selection.SelectExclusive(el.ID)
	e.emit(Event{Type: EventSelection})
	if e.tool.placesOnce() {
		e.tool = Tool{Kind: ToolSelect}
		e.emit(Event{Type: EventTool})
	}
}

// constrainAbility brings every constrained dimension into its catalog range.
// Path lengths are held to both bounds here even when a live drag allowed a
// transient undershoot.
func (e *Editor) constrainAbility(a *document.AbilityAnnotation) {
	def := e.lookup(a.AbilityRef)
	switch a.Shape {
	case document.AbilityArea:
		a.Radius = clampDimension(def, catalog.DimRadius, a.Radius)
		if a.InnerRadius > 0 {
			a.InnerRadius = math.Min(clampDimension(def, catalog.DimInnerRadius, a.InnerRadius), a.Radius)
		}
	case document.AbilityPoint:
		if _, ok := catalog.DimensionValue(def, catalog.DimRadius); ok {
			a.Radius = clampDimension(def, catalog.DimRadius, a.Radius)
		}
	case document.AbilityWall, document.AbilityPath, document.AbilityCurvedWall:
		a.Points = constraint.ClampPathLength(ensurePath(a.Points),
			catalog.MinDimension(def, catalog.DimLength), catalog.MaxDimension(def, catalog.DimLength))
	case document.AbilityGuidedPath:
		a.GuidedPoints = constraint.ClampPathLength(ensurePath(a.GuidedPoints),
			catalog.MinDimension(def, catalog.DimDistance), catalog.MaxDimension(def, catalog.DimDistance))
	}
	if _, ok := catalog.DimensionValue(def, catalog.DimWidth); ok {
		a.Width = clampDimension(def, catalog.DimWidth, a.Width)
	}
	if _, ok := catalog.DimensionValue(def, catalog.DimHeight); ok {
		a.Height = clampDimension(def, catalog.DimHeight, a.Height)
	}
}

func clampDimension(def *catalog.AbilityDefinition, dim catalog.Dimension, v float64) float64 {
	return constraint.Clamp(v, catalog.MinDimension(def, dim), catalog.MaxDimension(def, dim))
}

// ensurePath pads a path to at least two points by repeating its last point.
func ensurePath(points []float64) []float64 {
	out := append([]float64(nil), points...)
	for constraint.PointCount(out) < 2 {
		if len(out) < 2 {
			out = append(out, 0, 0)
			continue
		}
		out = append(out, out[len(out)-2], out[len(out)-1])
	}
	return out
}
