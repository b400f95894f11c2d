package engine

import (
	"reflect"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
)

// HitTolerance pads hit boxes by a few screen pixels so thin shapes stay pickable.
const HitTolerance = 4.0

// HitTest returns the topmost element whose hit box contains the document
// point, or "".
func (e *Editor) HitTest(x, y float64) string {
	return HitTest(e.scene.Document().Elements, x, y, HitTolerance/e.viewport.Scale())
}

// HitTest walks elements front to back (reverse z-order) and returns the id of
// the first one whose padded hit box contains (x, y).
func HitTest(elements []*document.Element, x, y, pad float64) string {
	for i := len(elements) - 1; i >= 0; i-- {
		el := elements[i]
		b := el.HitBounds()
		b = document.Rect{X: b.X - pad, Y: b.Y - pad, Width: b.Width + 2*pad, Height: b.Height + 2*pad}
		if b.Contains(x, y) {
			return el.ID
		}
	}
	return ""
}

// SelectionBounds returns the union of the bounding boxes of ids.
func SelectionBounds(elements []*document.Element, ids []string) document.Rect {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var result document.Rect
	first := true
	for _, el := range elements {
		if _, ok := want[el.ID]; !ok {
			continue
		}
		if first {
			result = el.Bounds()
			first = false
			continue
		}
		result = result.Union(el.Bounds())
	}
	return result
}

// SelectionBounds is the bounding box of the current selection.
func (e *Editor) SelectionBounds() document.Rect {
	return SelectionBounds(e.scene.Document().Elements, e.selection.IDs())
}

func elementsEqual(a, b *document.Element) bool {
	return reflect.DeepEqual(a, b)
}
