// Package catalog holds the static per-ability dimension ranges used by the
// constraint engine. Stats are authored in real-world metres and converted to
// render units at a fixed ratio.
package catalog

import (
	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
)

// RenderUnitsPerMeter converts catalog metres into canvas render units.
const RenderUnitsPerMeter = 7.5

// DefaultMaxIntermediatePoints caps curved-wall control points when the
// definition does not say otherwise.
const DefaultMaxIntermediatePoints = 10

type Dimension string

const (
	DimRadius      Dimension = "radius"
	DimInnerRadius Dimension = "innerRadius"
	DimLength      Dimension = "length"
	DimWidth       Dimension = "width"
	DimHeight      Dimension = "height"
	DimDistance    Dimension = "distance"
)

// UnitPixels marks a stat that is already expressed in render units.
const UnitPixels = "px"

type Stat struct {
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Value *float64 `json:"value,omitempty"`
	Unit  string   `json:"unit,omitempty"`
}

func (s Stat) toRender(v float64) float64 {
	if s.Unit == UnitPixels {
		return v
	}
	return v * RenderUnitsPerMeter
}

type AbilityDefinition struct {
	Shape                 document.AbilityShape `json:"shape"`
	Stats                 map[Dimension]Stat    `json:"stats"`
	Tension               float64               `json:"tension,omitempty"`
	MaxIntermediatePoints int                   `json:"maxIntermediatePoints,omitempty"`
	Global                bool                  `json:"global,omitempty"`
}

// fallbackRanges are the generic [min, max] ranges in metres used when a
// definition or stat is missing.
var fallbackRanges = map[Dimension][2]float64{
	DimRadius:      {0.5, 60},
	DimInnerRadius: {0, 30},
	DimLength:      {1, 80},
	DimWidth:       {0.5, 20},
	DimHeight:      {0.5, 20},
	DimDistance:    {1, 100},
}

var genericRange = [2]float64{0.5, 100}

func fallback(kind Dimension) [2]float64 {
	if r, ok := fallbackRanges[kind]; ok {
		return r
	}
	return genericRange
}

func stat(def *AbilityDefinition, kind Dimension) (Stat, bool) {
	if def == nil || def.Stats == nil {
		return Stat{}, false
	}
	s, ok := def.Stats[kind]
	return s, ok
}

// DimensionValue returns the declared value of a dimension in render units. ok is
// false when neither a value nor a bound is declared.
func DimensionValue(def *AbilityDefinition, kind Dimension) (float64, bool) {
	s, ok := stat(def, kind)
	if !ok {
		return 0, false
	}
	switch {
	case s.Value != nil:
		return s.toRender(*s.Value), true
	case s.Min != nil:
		return s.toRender(*s.Min), true
	case s.Max != nil:
		return s.toRender(*s.Max), true
	}
	return 0, false
}

// MinDimension returns the lower bound in render units, falling back to the
// declared value and then to the generic range.
func MinDimension(def *AbilityDefinition, kind Dimension) float64 {
	if s, ok := stat(def, kind); ok {
		switch {
		case s.Min != nil:
			return s.toRender(*s.Min)
		case s.Value != nil && s.Max == nil:
			return s.toRender(*s.Value)
		}
	}
	return fallback(kind)[0] * RenderUnitsPerMeter
}

// MaxDimension returns the upper bound in render units, falling back to the
// declared value and then to the generic range.
func MaxDimension(def *AbilityDefinition, kind Dimension) float64 {
	if s, ok := stat(def, kind); ok {
		switch {
		case s.Max != nil:
			return s.toRender(*s.Max)
		case s.Value != nil && s.Min == nil:
			return s.toRender(*s.Value)
		}
	}
	return fallback(kind)[1] * RenderUnitsPerMeter
}

// IsFixedSize reports whether the dimension collapses to a single value.
func IsFixedSize(def *AbilityDefinition, kind Dimension) bool {
	return MinDimension(def, kind) == MaxDimension(def, kind)
}

// DefaultDimension is the size used when a new annotation is placed: the
// declared value when present, otherwise the minimum.
func DefaultDimension(def *AbilityDefinition, kind Dimension) float64 {
	if s, ok := stat(def, kind); ok && s.Value != nil {
		return s.toRender(*s.Value)
	}
	return MinDimension(def, kind)
}

// MaxIntermediatePoints returns the curved-wall control point cap.
func MaxIntermediatePoints(def *AbilityDefinition) int {
	if def == nil || def.MaxIntermediatePoints <= 0 {
		return DefaultMaxIntermediatePoints
	}
	return def.MaxIntermediatePoints
}

// LengthDimension names the dimension that bounds a path-like shape.
func LengthDimension(shape document.AbilityShape) Dimension {
	if shape == document.AbilityGuidedPath {
		return DimDistance
	}
	return DimLength
}
