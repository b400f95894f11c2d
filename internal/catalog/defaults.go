package catalog

import "github.com/MauAlvarado43/open-valobook-sub000/internal/document"

func f(v float64) *float64 { return &v }

// Default returns the built-in catalog used when no catalog file is configured.
func Default() *Catalog {
	return New(map[string]AbilityDefinition{
		"smoke": {
			Shape: document.AbilityArea,
			Stats: map[Dimension]Stat{DimRadius: {Value: f(4.1), Unit: "m"}},
		},
		"slow-field": {
			Shape: document.AbilityArea,
			Stats: map[Dimension]Stat{DimRadius: {Min: f(2), Max: f(7), Unit: "m"}},
		},
		"barrier": {
			Shape: document.AbilityWall,
			Stats: map[Dimension]Stat{
				DimLength: {Min: f(2.5), Max: f(80), Value: f(40), Unit: "m"},
				DimWidth:  {Value: f(1), Unit: "m"},
			},
		},
		"curtain": {
			Shape:                 document.AbilityCurvedWall,
			Stats:                 map[Dimension]Stat{DimLength: {Min: f(5), Max: f(60), Unit: "m"}},
			Tension:               0.5,
			MaxIntermediatePoints: 10,
		},
		"dash": {
			Shape: document.AbilityPath,
			Stats: map[Dimension]Stat{DimLength: {Min: f(1), Max: f(12), Unit: "m"}},
		},
		"drone": {
			Shape: document.AbilityGuidedPath,
			Stats: map[Dimension]Stat{DimDistance: {Max: f(45), Min: f(1), Unit: "m"}},
		},
		"recon-dart": {
			Shape: document.AbilityPoint,
			Stats: map[Dimension]Stat{DimRadius: {Value: f(30), Unit: "m"}},
		},
		"orbital-strike": {
			Shape:  document.AbilityArea,
			Stats:  map[Dimension]Stat{DimRadius: {Value: f(9), Unit: "m"}},
			Global: true,
		},
	})
}
