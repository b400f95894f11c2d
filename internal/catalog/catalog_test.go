package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
)

func TestFallbackRanges(t *testing.T) {
	cases := []struct {
		dim      Dimension
		min, max float64
	}{
		{DimRadius, 3.75, 450},
		{DimInnerRadius, 0, 225},
		{DimLength, 7.5, 600},
		{DimWidth, 3.75, 150},
		{DimDistance, 7.5, 750},
		{Dimension("reach"), 3.75, 750},
	}
	for _, tc := range cases {
		if got := MinDimension(nil, tc.dim); got != tc.min {
			t.Errorf("%s min = %v, want %v", tc.dim, got, tc.min)
		}
		if got := MaxDimension(nil, tc.dim); got != tc.max {
			t.Errorf("%s max = %v, want %v", tc.dim, got, tc.max)
		}
	}
}

func TestMetresConvertToRenderUnits(t *testing.T) {
	def := &AbilityDefinition{Stats: map[Dimension]Stat{
		DimLength: {Min: f(2), Max: f(40)},
		DimWidth:  {Min: f(8), Max: f(16), Unit: UnitPixels},
	}}
	if got := MinDimension(def, DimLength); got != 15 {
		t.Errorf("min length = %v, want 15", got)
	}
	if got := MaxDimension(def, DimLength); got != 300 {
		t.Errorf("max length = %v, want 300", got)
	}
	if got := MaxDimension(def, DimWidth); got != 16 {
		t.Errorf("px stat was converted: %v", got)
	}
	// missing stat on a present definition still uses the fallback
	if got := MaxDimension(def, DimRadius); got != 450 {
		t.Errorf("max radius = %v, want 450", got)
	}
}

func TestFixedSize(t *testing.T) {
	def := &AbilityDefinition{Stats: map[Dimension]Stat{DimRadius: {Value: f(4)}}}
	if !IsFixedSize(def, DimRadius) {
		t.Error("value-only stat should be fixed")
	}
	if MinDimension(def, DimRadius) != 30 || DefaultDimension(def, DimRadius) != 30 {
		t.Error("fixed stat should collapse to its value")
	}
	ranged := &AbilityDefinition{Stats: map[Dimension]Stat{DimRadius: {Min: f(2), Max: f(7), Value: f(4)}}}
	if IsFixedSize(ranged, DimRadius) {
		t.Error("ranged stat reported as fixed")
	}
	if DefaultDimension(ranged, DimRadius) != 30 {
		t.Error("default should prefer the declared value")
	}
	noValue := &AbilityDefinition{Stats: map[Dimension]Stat{DimRadius: {Min: f(2), Max: f(7)}}}
	if DefaultDimension(noValue, DimRadius) != 15 {
		t.Error("default should fall back to the minimum")
	}
}

func TestDimensionValue(t *testing.T) {
	if _, ok := DimensionValue(nil, DimRadius); ok {
		t.Error("nil definition reported a value")
	}
	def := &AbilityDefinition{Stats: map[Dimension]Stat{DimLength: {Max: f(10)}}}
	if v, ok := DimensionValue(def, DimLength); !ok || v != 75 {
		t.Errorf("DimensionValue = %v,%v", v, ok)
	}
}

func TestMaxIntermediatePoints(t *testing.T) {
	if MaxIntermediatePoints(nil) != DefaultMaxIntermediatePoints {
		t.Error("nil definition should use the default cap")
	}
	if MaxIntermediatePoints(&AbilityDefinition{MaxIntermediatePoints: 4}) != 4 {
		t.Error("declared cap ignored")
	}
}

func TestLengthDimension(t *testing.T) {
	if LengthDimension(document.AbilityGuidedPath) != DimDistance {
		t.Error("guided path is bounded by distance")
	}
	if LengthDimension(document.AbilityWall) != DimLength {
		t.Error("wall is bounded by length")
	}
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`{"abilities":{
		"wall":{"shape":"wall","stats":{"length":{"min":2,"max":30,"unit":"m"}}},
		"flash":{"shape":"point"}
	}}`))
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Keys(); !reflect.DeepEqual(got, []string{"flash", "wall"}) {
		t.Errorf("keys = %v", got)
	}
	def, ok := c.Lookup("wall")
	if !ok || MaxDimension(def, DimLength) != 225 {
		t.Errorf("lookup wall = %+v, %v", def, ok)
	}
	if _, ok := c.Lookup("nope"); ok {
		t.Error("lookup of unknown key succeeded")
	}
}

func TestParseInvalid(t *testing.T) {
	cases := map[string]string{
		"syntax":   `{"abilities":`,
		"no shape": `{"abilities":{"x":{}}}`,
		"inverted": `{"abilities":{"x":{"shape":"area","stats":{"radius":{"min":9,"max":1}}}}}`,
	}
	for name, raw := range cases {
		if _, err := Parse([]byte(raw)); !errors.Is(err, ErrInvalidCatalog) {
			t.Errorf("%s: err = %v, want ErrInvalidCatalog", name, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`{"abilities":{"smoke":{"shape":"area"}}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Lookup("smoke"); !ok {
		t.Error("smoke missing")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	barrier, ok := c.Lookup("barrier")
	if !ok {
		t.Fatal("barrier missing")
	}
	if barrier.Shape != document.AbilityWall {
		t.Errorf("barrier shape = %q", barrier.Shape)
	}
	if DefaultDimension(barrier, DimLength) != 300 || MaxDimension(barrier, DimLength) != 600 {
		t.Error("barrier length range wrong")
	}
	smoke, _ := c.Lookup("smoke")
	if !IsFixedSize(smoke, DimRadius) {
		t.Error("smoke radius should be fixed")
	}
}
