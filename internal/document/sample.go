package document

import "github.com/MauAlvarado43/open-valobook-sub000/internal/typeid"

// NewSampleDocument returns a small attack setup: two agents, a smoke, a wall
// and an arrow. Used to seed fresh sessions when configured.
func NewSampleDocument(id string) *Document {
	doc := NewEmptyDocument(id, "Untitled", "ascent")
	doc.Elements = []*Element{
		{
			ID:   typeid.NewAgentID(),
			Kind: KindAgent,
			X:    220, Y: 780,
			Agent: &AgentMarker{AgentRef: "scout", Side: SideAttack},
		},
		{
			ID:   typeid.NewAgentID(),
			Kind: KindAgent,
			X:    260, Y: 800,
			Agent: &AgentMarker{AgentRef: "controller", Side: SideAttack},
		},
		{
			ID:   typeid.NewAbilityID(),
			Kind: KindAbility,
			X:    480, Y: 520,
			Ability: &AbilityAnnotation{
				AbilityRef: "smoke",
				Shape:      AbilityArea,
				Radius:     30.75,
			},
		},
		{
			ID:   typeid.NewAbilityID(),
			Kind: KindAbility,
			X:    600, Y: 300,
			Ability: &AbilityAnnotation{
				AbilityRef: "barrier",
				Shape:      AbilityWall,
				Points:     []float64{0, 0, 150, 0},
				Width:      7.5,
			},
		},
		{
			ID:   typeid.NewDrawingID(),
			Kind: KindDrawing,
			X:    260, Y: 760,
			Color: "#ff4655",
			Drawing: &Drawing{
				Shape:       DrawArrow,
				Points:      []float64{0, 0, 200, -220},
				StrokeWidth: 3,
			},
		},
	}
	return doc
}
