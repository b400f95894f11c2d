package document

// Patch is a partial element update. Nil fields are left unchanged; a non-nil
// payload replaces the element's payload wholesale.
type Patch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	ScaleX   *float64 `json:"scaleX,omitempty"`
	ScaleY   *float64 `json:"scaleY,omitempty"`
	Color    *string  `json:"color,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty"`

	Agent   *AgentMarker       `json:"agent,omitempty"`
	Ability *AbilityAnnotation `json:"ability,omitempty"`
	Drawing *Drawing           `json:"drawing,omitempty"`
}

// Apply writes the patch onto e. Payloads are copied so the patch can be reused.
func (p Patch) Apply(e *Element) {
	if p.X != nil {
		e.X = *p.X
	}
	if p.Y != nil {
		e.Y = *p.Y
	}
	if p.Rotation != nil {
		e.Rotation = *p.Rotation
	}
	if p.ScaleX != nil {
		e.ScaleX = *p.ScaleX
	}
	if p.ScaleY != nil {
		e.ScaleY = *p.ScaleY
	}
	if p.Color != nil {
		e.Color = *p.Color
	}
	if p.Opacity != nil {
		v := *p.Opacity
		e.Opacity = &v
	}

	// Payloads only apply to the matching kind.
	switch e.Kind {
	case KindAgent:
		if p.Agent != nil {
			a := *p.Agent
			e.Agent = &a
		}
	case KindAbility:
		if p.Ability != nil {
			e.Ability = (&Element{Kind: KindAbility, Ability: p.Ability}).Clone().Ability
		}
	case KindDrawing:
		if p.Drawing != nil {
			e.Drawing = (&Element{Kind: KindDrawing, Drawing: p.Drawing}).Clone().Drawing
		}
	}
}

// PatchFrom builds a patch that turns any element with the same id and kind
// into el.
func PatchFrom(el *Element) Patch {
	c := el.Clone()
	return Patch{
		X:        &c.X,
		Y:        &c.Y,
		Rotation: &c.Rotation,
		ScaleX:   &c.ScaleX,
		ScaleY:   &c.ScaleY,
		Color:    &c.Color,
		Opacity:  c.Opacity,
		Agent:    c.Agent,
		Ability:  c.Ability,
		Drawing:  c.Drawing,
	}
}
