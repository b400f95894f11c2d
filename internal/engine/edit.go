package engine

import (
	"fmt"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/catalog"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/constraint"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/scene"
)

func (e *Editor) ability(id string) (*document.AbilityAnnotation, error) {
	if e.gesture != nil {
		return nil, ErrGestureActive
	}
	el, _ := e.scene.Document().Find(id)
	if el == nil {
		return nil, fmt.Errorf("%w: %s", scene.ErrElementNotFound, id)
	}
	if el.Kind != document.KindAbility {
		return nil, fmt.Errorf("%w: %s is a %s", ErrUnsupportedShape, id, el.Kind)
	}
	return el.Clone().Ability, nil
}

// SetIntermediatePointCount redistributes the control points of a curved wall
// along its current path. n is clamped to the ability's point cap. Both
// endpoints stay where they are, so a wall that straightens below its minimum
// length is left short until its next handle edit.
func (e *Editor) SetIntermediatePointCount(id string, n int) error {
	a, err := e.ability(id)
	if err != nil {
		return err
	}
	if a.Shape != document.AbilityCurvedWall {
		return fmt.Errorf("%w: %s is a %s ability", ErrUnsupportedShape, id, a.Shape)
	}
	def := e.lookup(a.AbilityRef)
	n = max(0, min(n, catalog.MaxIntermediatePoints(def)))

	points := constraint.Redistribute(ensurePath(a.Points), n)
	// redistributed points lie on the old polyline, so this only bites on
	// documents that were loaded over the limit
	a.Points = constraint.ClampPathLength(points, 0, catalog.MaxDimension(def, catalog.DimLength))
	a.IntermediatePoints = n
	return e.scene.UpdateElement(id, document.Patch{Ability: a})
}

// SetDimension sets a dimension programmatically. The value is clamped to the
// catalog range, so a fixed-size dimension always ends up at its single value.
func (e *Editor) SetDimension(id string, dim catalog.Dimension, value float64) error {
	a, err := e.ability(id)
	if err != nil {
		return err
	}
	def := e.lookup(a.AbilityRef)
	lo, hi := catalog.MinDimension(def, dim), catalog.MaxDimension(def, dim)
	v := constraint.Clamp(value, lo, hi)

	unsupported := fmt.Errorf("%w: %s has no %s", ErrUnsupportedShape, a.Shape, dim)
	switch dim {
	case catalog.DimRadius:
		if a.Shape != document.AbilityArea && a.Shape != document.AbilityPoint {
			return unsupported
		}
		a.Radius = v
		if a.InnerRadius > v {
			a.InnerRadius = v
		}
	case catalog.DimInnerRadius:
		if a.Shape != document.AbilityArea {
			return unsupported
		}
		a.InnerRadius = min(v, a.Radius)
	case catalog.DimLength:
		switch a.Shape {
		case document.AbilityWall, document.AbilityPath, document.AbilityCurvedWall:
			a.Points = resizePath(a.Points, v, lo, hi)
		default:
			return unsupported
		}
	case catalog.DimDistance:
		if a.Shape != document.AbilityGuidedPath {
			return unsupported
		}
		a.GuidedPoints = resizePath(a.GuidedPoints, v, lo, hi)
	case catalog.DimWidth:
		a.Width = v
	case catalog.DimHeight:
		a.Height = v
	default:
		return unsupported
	}
	return e.scene.UpdateElement(id, document.Patch{Ability: a})
}

// resizePath scales a path about its first point to the given total length.
func resizePath(points []float64, length, lo, hi float64) []float64 {
	pts := ensurePath(points)
	if cur := constraint.PathLength(pts); cur > 0 {
		pts = constraint.ScalePath(pts, length/cur)
	} else {
		pts = constraint.EnforceMinLength(pts, length)
	}
	return constraint.ClampPathLength(pts, lo, hi)
}
