// Package selection tracks which elements are selected. The primary element is
// derived: it exists only while exactly one element is selected.
package selection

import (
	"sort"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
)

type Selection struct {
	ids map[string]struct{}
}

func New() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// SelectExclusive replaces the selection with id, or empties it when id is "".
func (s *Selection) SelectExclusive(id string) {
	s.ids = make(map[string]struct{})
	if id != "" {
		s.ids[id] = struct{}{}
	}
}

// Toggle flips membership of id.
func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

func (s *Selection) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.ids)
}

// Primary returns the sole selected id, or "" when zero or several are selected.
func (s *Selection) Primary() string {
	if len(s.ids) != 1 {
		return ""
	}
	for id := range s.ids {
		return id
	}
	return ""
}

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Set replaces the selection with ids.
func (s *Selection) Set(ids []string) {
	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Prune drops ids that no longer exist in doc and reports whether anything changed.
func (s *Selection) Prune(doc *document.Document) bool {
	if len(s.ids) == 0 {
		return false
	}
	live := make(map[string]struct{}, len(doc.Elements))
	for _, el := range doc.Elements {
		live[el.ID] = struct{}{}
	}
	changed := false
	for id := range s.ids {
		if _, ok := live[id]; !ok {
			delete(s.ids, id)
			changed = true
		}
	}
	return changed
}

// BoxSelect toggles every element whose bounding box intersects rect. rect is
// half-open: its min edges are inclusive and its max edges exclusive.
func (s *Selection) BoxSelect(elements []*document.Element, rect document.Rect) []string {
	var hit []string
	for _, el := range elements {
		if rect.Intersects(el.Bounds()) {
			s.Toggle(el.ID)
			hit = append(hit, el.ID)
		}
	}
	return hit
}
