package document

// CanvasSize is the side length of the square background image in render units.
const CanvasSize = 1024.0

type Document struct {
	ID       string     `json:"id" jsonschema:"required"`
	Name     string     `json:"name"`
	MapRef   string     `json:"mapRef"`
	Side     Side       `json:"side" jsonschema:"enum=attack,enum=defense"`
	Elements []*Element `json:"elements"`
}

type Side string

const (
	SideAttack  Side = "attack"
	SideDefense Side = "defense"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideDefense {
		return SideAttack
	}
	return SideDefense
}

type ElementKind string

const (
	KindAgent   ElementKind = "agent"
	KindAbility ElementKind = "ability"
	KindDrawing ElementKind = "drawing"
)

// Element is a tagged variant: Kind selects which one of Agent, Ability or
// Drawing is populated.
type Element struct {
	ID       string      `json:"id" jsonschema:"required"`
	Kind     ElementKind `json:"kind" jsonschema:"required,enum=agent,enum=ability,enum=drawing"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Rotation float64     `json:"rotation,omitempty"`
	ScaleX   float64     `json:"scaleX,omitempty"`
	ScaleY   float64     `json:"scaleY,omitempty"`
	Color    string      `json:"color,omitempty"`
	Opacity  *float64    `json:"opacity,omitempty"`

	Agent   *AgentMarker       `json:"agent,omitempty"`
	Ability *AbilityAnnotation `json:"ability,omitempty"`
	Drawing *Drawing           `json:"drawing,omitempty"`
}

type AgentMarker struct {
	AgentRef string `json:"agentRef"`
	Side     Side   `json:"side"`
}

type AbilityShape string

const (
	AbilityPoint      AbilityShape = "point"
	AbilityArea       AbilityShape = "area"
	AbilityWall       AbilityShape = "wall"
	AbilityCurvedWall AbilityShape = "curved-wall"
	AbilityPath       AbilityShape = "path"
	AbilityGuidedPath AbilityShape = "guided-path"
)

// AbilityAnnotation carries ability geometry. Points are flat [x0, y0, x1, y1, ...]
// pairs relative to the element origin.
type AbilityAnnotation struct {
	AbilityRef         string       `json:"abilityRef"`
	Shape              AbilityShape `json:"shape"`
	Radius             float64      `json:"radius,omitempty"`
	InnerRadius        float64      `json:"innerRadius,omitempty"`
	Points             []float64    `json:"points,omitempty"`
	GuidedPoints       []float64    `json:"guidedPoints,omitempty"`
	Width              float64      `json:"width,omitempty"`
	Height             float64      `json:"height,omitempty"`
	Tension            float64      `json:"tension,omitempty"`
	IntermediatePoints int          `json:"intermediatePoints,omitempty"`
	Global             bool         `json:"global,omitempty"`
}

type DrawingShape string

const (
	DrawLine       DrawingShape = "line"
	DrawArrow      DrawingShape = "arrow"
	DrawCircle     DrawingShape = "circle"
	DrawRectangle  DrawingShape = "rectangle"
	DrawText       DrawingShape = "text"
	DrawFreehand   DrawingShape = "freehand"
	DrawTimerPath  DrawingShape = "timer-path"
	DrawVisionCone DrawingShape = "vision-cone"
	DrawIcon       DrawingShape = "icon"
	DrawImage      DrawingShape = "image"
)

type Drawing struct {
	Shape       DrawingShape `json:"shape"`
	Points      []float64    `json:"points,omitempty"`
	Radius      float64      `json:"radius,omitempty"`
	Width       float64      `json:"width,omitempty"`
	Height      float64      `json:"height,omitempty"`
	Text        string       `json:"text,omitempty"`
	FontSize    float64      `json:"fontSize,omitempty"`
	StrokeWidth float64      `json:"strokeWidth,omitempty"`
	Dashed      bool         `json:"dashed,omitempty"`
	Angle       float64      `json:"angle,omitempty"`
	Duration    float64      `json:"duration,omitempty"`
	IconRef     string       `json:"iconRef,omitempty"`
	ImageRef    string       `json:"imageRef,omitempty"`
}

// NewEmptyDocument creates a document with no elements on the attacking side.
func NewEmptyDocument(id, name, mapRef string) *Document {
	return &Document{
		ID:       id,
		Name:     name,
		MapRef:   mapRef,
		Side:     SideAttack,
		Elements: []*Element{},
	}
}

// Find returns the element with the given id and its index, or nil and -1.
func (d *Document) Find(id string) (*Element, int) {
	for i, el := range d.Elements {
		if el.ID == id {
			return el, i
		}
	}
	return nil, -1
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	if d.Elements != nil {
		out.Elements = make([]*Element, len(d.Elements))
		for i, el := range d.Elements {
			out.Elements[i] = el.Clone()
		}
	}
	return &out
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := *e
	if e.Opacity != nil {
		v := *e.Opacity
		out.Opacity = &v
	}
	if e.Agent != nil {
		a := *e.Agent
		out.Agent = &a
	}
	if e.Ability != nil {
		a := *e.Ability
		a.Points = cloneFloats(e.Ability.Points)
		a.GuidedPoints = cloneFloats(e.Ability.GuidedPoints)
		out.Ability = &a
	}
	if e.Drawing != nil {
		d := *e.Drawing
		d.Points = cloneFloats(e.Drawing.Points)
		out.Drawing = &d
	}
	return &out
}

func cloneFloats(src []float64) []float64 {
	if src == nil {
		return nil
	}
	dst := make([]float64, len(src))
	copy(dst, src)
	return dst
}
