package document

import "math"

const (
	AgentHalfExtent       = 17.5
	AbilityIconHalfExtent = 16.0

	textWidthFactor  = 0.6
	textHeightFactor = 1.2
	defaultFontSize  = 20.0
)

// Rect is an axis-aligned box in document space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromCorners normalizes two opposite corners into a Rect.
func RectFromCorners(x0, y0, x1, y1 float64) Rect {
	return Rect{
		X:      math.Min(x0, x1),
		Y:      math.Min(y0, y1),
		Width:  math.Abs(x1 - x0),
		Height: math.Abs(y1 - y0),
	}
}

func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Contains checks if a point is inside the rect (edges inclusive).
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.MaxX() && y >= r.Y && y <= r.MaxY()
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersects reports whether box overlaps r, treating r as half-open: its min
// edges are inclusive and its max edges exclusive. box is closed, so a
// zero-size box on r's min edge is included.
func (r Rect) Intersects(box Rect) bool {
	return box.MaxX() >= r.X && box.X < r.MaxX() &&
		box.MaxY() >= r.Y && box.Y < r.MaxY()
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.MaxX(), other.MaxX())
	maxY := math.Max(r.MaxY(), other.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func centered(x, y, halfW, halfH float64) Rect {
	return Rect{X: x - halfW, Y: y - halfH, Width: 2 * halfW, Height: 2 * halfH}
}

// Bounds returns the box-selection bounding box of the element in document space.
func (e *Element) Bounds() Rect {
	sx, sy := e.scale()
	switch e.Kind {
	case KindAgent:
		return centered(e.X, e.Y, AgentHalfExtent, AgentHalfExtent)
	case KindAbility:
		return centered(e.X, e.Y, AbilityIconHalfExtent, AbilityIconHalfExtent)
	case KindDrawing:
		return e.drawingBounds(sx, sy)
	}
	return Rect{X: e.X, Y: e.Y}
}

// HitBounds is the picking box: Bounds extended by the full ability geometry.
func (e *Element) HitBounds() Rect {
	b := e.Bounds()
	if e.Kind != KindAbility {
		return b
	}
	a := e.Ability
	if a.Radius > 0 {
		b = b.Union(centered(e.X, e.Y, a.Radius, a.Radius))
	}
	if a.Width > 0 || a.Height > 0 {
		b = b.Union(centered(e.X, e.Y, a.Width/2, a.Height/2))
	}
	if len(a.Points) >= 2 {
		b = b.Union(pointsBounds(e.X, e.Y, a.Points, 1, 1))
	}
	if len(a.GuidedPoints) >= 2 {
		b = b.Union(pointsBounds(e.X, e.Y, a.GuidedPoints, 1, 1))
	}
	return b
}

func (e *Element) drawingBounds(sx, sy float64) Rect {
	d := e.Drawing
	switch d.Shape {
	case DrawRectangle, DrawIcon, DrawImage:
		return centered(e.X, e.Y, d.Width*sx/2, d.Height*sy/2)
	case DrawCircle, DrawVisionCone:
		return centered(e.X, e.Y, d.Radius*sx, d.Radius*sy)
	case DrawText:
		fs := d.FontSize
		if fs <= 0 {
			fs = defaultFontSize
		}
		w := float64(len([]rune(d.Text))) * fs * textWidthFactor * sx
		h := fs * textHeightFactor * sy
		return Rect{X: e.X, Y: e.Y, Width: w, Height: h}
	case DrawLine, DrawArrow, DrawFreehand, DrawTimerPath:
		return pointsBounds(e.X, e.Y, d.Points, sx, sy)
	}
	return Rect{X: e.X, Y: e.Y}
}

func (e *Element) scale() (float64, float64) {
	sx, sy := e.ScaleX, e.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

func pointsBounds(ox, oy float64, pts []float64, sx, sy float64) Rect {
	if len(pts) < 2 {
		return Rect{X: ox, Y: oy}
	}
	minX, maxX := pts[0]*sx, pts[0]*sx
	minY, maxY := pts[1]*sy, pts[1]*sy
	for i := 2; i+1 < len(pts); i += 2 {
		x, y := pts[i]*sx, pts[i+1]*sy
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	return Rect{X: ox + minX, Y: oy + minY, Width: maxX - minX, Height: maxY - minY}
}
