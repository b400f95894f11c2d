package engine

import (
	"math"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
)

const (
	MinZoom  = 0.5
	MaxZoom  = 3.0
	ZoomStep = 1.05
)

// Viewport maps between screen pixels and document units. The stage is
// translated by the pan offset and scaled by zoom times the auto-fit scale;
// on the defense side document points are additionally reflected through the
// canvas centre.
type Viewport struct {
	Zoom   float64       `json:"zoom"`
	PanX   float64       `json:"panX"`
	PanY   float64       `json:"panY"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Side   document.Side `json:"side"`
}

func NewViewport(width, height float64) *Viewport {
	return &Viewport{Zoom: 1, Width: width, Height: height, Side: document.SideAttack}
}

// FitScale is the container/content ratio for the fixed-size canvas.
func (v *Viewport) FitScale() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return math.Min(v.Width, v.Height) / document.CanvasSize
}

// Scale is the effective screen pixels per document unit.
func (v *Viewport) Scale() float64 {
	return v.Zoom * v.FitScale()
}

// Stage is the screen transform of the unflipped canvas.
func (v *Viewport) Stage() Matrix2D {
	s := v.Scale()
	return Translate(v.PanX, v.PanY).Multiply(Scale(s, s))
}

// Matrix maps document coordinates to screen coordinates including the side flip.
func (v *Viewport) Matrix() Matrix2D {
	if v.Side == document.SideDefense {
		return v.Stage().Multiply(FlipMatrix())
	}
	return v.Stage()
}

func (v *Viewport) ToDocument(sx, sy float64) (float64, float64) {
	x, y := v.Stage().Invert().TransformPoint(sx, sy)
	if v.Side == document.SideDefense {
		return Flip(x, y)
	}
	return x, y
}

func (v *Viewport) ToScreen(x, y float64) (float64, float64) {
	if v.Side == document.SideDefense {
		x, y = Flip(x, y)
	}
	return v.Stage().TransformPoint(x, y)
}

func (v *Viewport) Resize(width, height float64) {
	v.Width, v.Height = width, height
}

// PanBy moves the stage by a screen-space delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// ZoomAt applies one wheel notch around the screen point (sx, sy): deltaY < 0
// zooms in by ZoomStep, deltaY > 0 zooms out. The document point under the
// pointer stays put. It reports whether the zoom changed.
func (v *Viewport) ZoomAt(sx, sy, deltaY float64) bool {
	if deltaY == 0 {
		return false
	}
	next := v.Zoom * ZoomStep
	if deltaY > 0 {
		next = v.Zoom / ZoomStep
	}
	next = math.Max(MinZoom, math.Min(MaxZoom, next))
	if next == v.Zoom {
		return false
	}
	ratio := next / v.Zoom
	v.PanX = sx - (sx-v.PanX)*ratio
	v.PanY = sy - (sy-v.PanY)*ratio
	v.Zoom = next
	return true
}

// Reset restores zoom 1 and centres the canvas in the container.
func (v *Viewport) Reset() {
	v.Zoom = 1
	size := document.CanvasSize * v.FitScale()
	v.PanX = (v.Width - size) / 2
	v.PanY = (v.Height - size) / 2
}

// Flip reflects a document point through the canvas centre.
func Flip(x, y float64) (float64, float64) {
	return document.CanvasSize - x, document.CanvasSize - y
}

// FlipMatrix is Flip as an affine transform.
func FlipMatrix() Matrix2D {
	return Translate(document.CanvasSize, document.CanvasSize).Multiply(Scale(-1, -1))
}
