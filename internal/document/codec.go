package document

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned for documents that cannot be decoded or violate the
// schema (duplicate ids, payload not matching kind, unknown side).
var ErrMalformed = errors.New("malformed document")

// Parse decodes and validates a persisted document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Side == "" {
		doc.Side = SideAttack
	}
	if doc.Elements == nil {
		doc.Elements = []*Element{}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Marshal encodes the document for persistence.
func Marshal(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// Validate checks the structural invariants of the document.
func (d *Document) Validate() error {
	if d.Side != SideAttack && d.Side != SideDefense {
		return fmt.Errorf("%w: unknown side %q", ErrMalformed, d.Side)
	}
	seen := make(map[string]struct{}, len(d.Elements))
	for i, el := range d.Elements {
		if el == nil {
			return fmt.Errorf("%w: element %d is null", ErrMalformed, i)
		}
		if el.ID == "" {
			return fmt.Errorf("%w: element %d has no id", ErrMalformed, i)
		}
		if _, dup := seen[el.ID]; dup {
			return fmt.Errorf("%w: duplicate element id %q", ErrMalformed, el.ID)
		}
		seen[el.ID] = struct{}{}
		if err := el.validatePayload(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Element) validatePayload() error {
	var ok bool
	switch e.Kind {
	case KindAgent:
		ok = e.Agent != nil && e.Ability == nil && e.Drawing == nil
	case KindAbility:
		ok = e.Ability != nil && e.Agent == nil && e.Drawing == nil
		if ok && (len(e.Ability.Points)%2 != 0 || len(e.Ability.GuidedPoints)%2 != 0) {
			return fmt.Errorf("%w: element %q has an odd point list", ErrMalformed, e.ID)
		}
	case KindDrawing:
		ok = e.Drawing != nil && e.Agent == nil && e.Ability == nil
		if ok && len(e.Drawing.Points)%2 != 0 {
			return fmt.Errorf("%w: element %q has an odd point list", ErrMalformed, e.ID)
		}
	default:
		return fmt.Errorf("%w: element %q has unknown kind %q", ErrMalformed, e.ID, e.Kind)
	}
	if !ok {
		return fmt.Errorf("%w: element %q payload does not match kind %q", ErrMalformed, e.ID, e.Kind)
	}
	return nil
}
