package session

import (
	"encoding/json"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/catalog"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/engine"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client to server
	TypePointer      = "input.pointer"
	TypeKey          = "input.key"
	TypeWheel        = "input.wheel"
	TypeToolSet      = "tool.set"
	TypeResize       = "viewport.resize"
	TypeUndo         = "history.undo"
	TypeRedo         = "history.redo"
	TypeDocNew       = "doc.new"
	TypeDocLoad      = "doc.load"
	TypeDocSave      = "doc.save"
	TypeDocOpen      = "doc.open"
	TypeIntermediate = "element.intermediate"
	TypeDimension    = "element.dimension"

	// Server to client
	TypeWelcome = "welcome"
	TypeDocSync = "doc.sync"
	TypeState   = "state"
	TypeSaved   = "doc.saved"
	TypeError   = "error"
)

type PointerPhase string

const (
	PhaseDown PointerPhase = "down"
	PhaseMove PointerPhase = "move"
	PhaseUp   PointerPhase = "up"
)

type PointerPayload struct {
	Phase PointerPhase `json:"phase"`
	engine.PointerEvent
}

type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type DocNewPayload struct {
	Name   string `json:"name"`
	MapRef string `json:"mapRef"`
}

type DocLoadPayload struct {
	Document json.RawMessage `json:"document"`
}

type DocOpenPayload struct {
	ID string `json:"id"`
}

type IntermediatePayload struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

type DimensionPayload struct {
	ID        string            `json:"id"`
	Dimension catalog.Dimension `json:"dimension"`
	Value     float64           `json:"value"`
}

type WelcomePayload struct {
	SessionID string             `json:"sessionId"`
	ClientID  string             `json:"clientId"`
	LibraryID string             `json:"libraryId"`
	Document  *document.Document `json:"document"`
	State     StatePayload       `json:"state"`
}

type DocSyncPayload struct {
	Document *document.Document `json:"document"`
	Change   string             `json:"change,omitempty"`
	CanUndo  bool               `json:"canUndo"`
	CanRedo  bool               `json:"canRedo"`
}

// StatePayload is everything a renderer needs besides the document.
type StatePayload struct {
	Tool      engine.Tool     `json:"tool"`
	Selection []string        `json:"selection"`
	Overlay   engine.Overlay  `json:"overlay"`
	Viewport  engine.Viewport `json:"viewport"`
}

type SavedPayload struct {
	ID string `json:"id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	// Request echoes the type of the message that failed.
	Request string `json:"request,omitempty"`
}
