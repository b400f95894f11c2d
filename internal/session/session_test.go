package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/catalog"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/engine"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/library"
)

func newTestHub(t *testing.T, delay time.Duration) (*Hub, *library.MemoryStore) {
	t.Helper()
	store := library.NewMemoryStore()
	hub := NewHub(Options{
		Catalog:       catalog.Default(),
		Store:         store,
		AutosaveDelay: delay,
	})
	go hub.Run()
	t.Cleanup(func() { hub.Stop(context.Background()) })
	return hub, store
}

func newTestSession(t *testing.T, hub *Hub) *Session {
	t.Helper()
	s, err := hub.NewSession(context.Background(), nil, "tester", "")
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func message(t *testing.T, typ string, seq int64, payload any) *Message {
	t.Helper()
	msg := &Message{Type: typ, Seq: seq}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		msg.Payload = data
	}
	return msg
}

// next reads queued messages until one of type typ arrives.
func next(t *testing.T, s *Session, typ string) *Message {
	t.Helper()
	for {
		select {
		case data := <-s.send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatal(err)
			}
			if msg.Type == typ {
				return &msg
			}
		default:
			t.Fatalf("no %s message queued", typ)
			return nil
		}
	}
}

func drain(s *Session) {
	for {
		select {
		case <-s.send:
		default:
			return
		}
	}
}

func placeAgent(t *testing.T, s *Session, x, y float64) {
	t.Helper()
	ctx := context.Background()
	s.handle(ctx, message(t, TypeToolSet, 1, engine.Tool{Kind: engine.ToolAgent, Ref: "sova"}))
	s.handle(ctx, message(t, TypePointer, 2, PointerPayload{Phase: PhaseDown, PointerEvent: engine.PointerEvent{X: x, Y: y}}))
	s.handle(ctx, message(t, TypePointer, 3, PointerPayload{Phase: PhaseUp, PointerEvent: engine.PointerEvent{X: x, Y: y}}))
}

func TestPointerInputSyncsDocument(t *testing.T) {
	hub, _ := newTestHub(t, time.Hour)
	s := newTestSession(t, hub)

	placeAgent(t, s, 100, 200)

	msg := next(t, s, TypeDocSync)
	if msg.Seq != 3 {
		t.Errorf("seq = %d, want 3", msg.Seq)
	}
	var sync DocSyncPayload
	if err := json.Unmarshal(msg.Payload, &sync); err != nil {
		t.Fatal(err)
	}
	if len(sync.Document.Elements) != 1 || !sync.CanUndo {
		t.Fatalf("sync = %+v", sync)
	}
	el := sync.Document.Elements[0]
	if el.Kind != document.KindAgent || el.X != 100 || el.Y != 200 {
		t.Errorf("element = %+v", el)
	}

	var state StatePayload
	if err := json.Unmarshal(next(t, s, TypeState).Payload, &state); err != nil {
		t.Fatal(err)
	}
	if state.Tool.Kind != engine.ToolSelect || len(state.Selection) != 1 || state.Selection[0] != el.ID {
		t.Errorf("state = %+v", state)
	}
	if !s.autosave.Pending() {
		t.Error("document edit did not arm the autosave")
	}
}

func TestKeyUndoRoundTrip(t *testing.T) {
	hub, _ := newTestHub(t, time.Hour)
	s := newTestSession(t, hub)
	placeAgent(t, s, 10, 10)
	drain(s)

	s.handle(context.Background(), message(t, TypeKey, 4, engine.KeyEvent{Key: "z", Ctrl: true}))
	var sync DocSyncPayload
	if err := json.Unmarshal(next(t, s, TypeDocSync).Payload, &sync); err != nil {
		t.Fatal(err)
	}
	if len(sync.Document.Elements) != 0 || sync.Change != "undo" || !sync.CanRedo {
		t.Errorf("after undo sync = %+v", sync)
	}

	s.handle(context.Background(), message(t, TypeRedo, 5, nil))
	if err := json.Unmarshal(next(t, s, TypeDocSync).Payload, &sync); err != nil {
		t.Fatal(err)
	}
	if len(sync.Document.Elements) != 1 {
		t.Errorf("after redo %d elements", len(sync.Document.Elements))
	}
}

func TestViewportMessagesOnlySendState(t *testing.T) {
	hub, _ := newTestHub(t, time.Hour)
	s := newTestSession(t, hub)

	s.handle(context.Background(), message(t, TypeResize, 1, ResizePayload{Width: 512, Height: 800}))
	s.handle(context.Background(), message(t, TypeWheel, 2, engine.WheelEvent{X: 10, Y: 10, DeltaY: -1}))

	var state StatePayload
	next(t, s, TypeState)
	if err := json.Unmarshal(next(t, s, TypeState).Payload, &state); err != nil {
		t.Fatal(err)
	}
	if state.Viewport.Width != 512 || state.Viewport.Zoom <= 1 {
		t.Errorf("viewport = %+v", state.Viewport)
	}
	if s.autosave.Pending() {
		t.Error("viewport change armed the autosave")
	}
}

func TestRejectedMessagesReportErrors(t *testing.T) {
	hub, _ := newTestHub(t, time.Hour)
	s := newTestSession(t, hub)

	tests := []struct {
		name string
		msg  *Message
	}{
		{"unknown type", message(t, "bogus", 1, nil)},
		{"missing payload", message(t, TypeToolSet, 2, nil)},
		{"bad phase", message(t, TypePointer, 3, PointerPayload{Phase: "hover"})},
		{"malformed document", message(t, TypeDocLoad, 4, DocLoadPayload{Document: json.RawMessage(`{"side":"up"}`)})},
		{"dimension on missing element", message(t, TypeDimension, 5, DimensionPayload{ID: "nope", Dimension: catalog.DimRadius, Value: 10})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.handle(context.Background(), tt.msg)
			var p ErrorPayload
			if err := json.Unmarshal(next(t, s, TypeError).Payload, &p); err != nil {
				t.Fatal(err)
			}
			if p.Request != tt.msg.Type || p.Message == "" {
				t.Errorf("error payload = %+v", p)
			}
			drain(s)
		})
	}
}

func TestAutosaveWritesLibraryEntry(t *testing.T) {
	hub, store := newTestHub(t, 10*time.Millisecond)
	s := newTestSession(t, hub)
	placeAgent(t, s, 50, 50)

	deadline := time.Now().Add(2 * time.Second)
	for {
		entry, err := store.Get(context.Background(), s.LibraryID())
		if err == nil {
			doc, err := document.Parse(entry.Content)
			if err != nil {
				t.Fatal(err)
			}
			if len(doc.Elements) != 1 {
				t.Errorf("autosaved %d elements, want 1", len(doc.Elements))
			}
			return
		}
		if !errors.Is(err, library.ErrNotFound) || time.Now().After(deadline) {
			t.Fatalf("autosave never landed: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSaveAndOpen(t *testing.T) {
	hub, store := newTestHub(t, time.Hour)
	ctx := context.Background()

	other := document.NewEmptyDocument("doc_other", "Other", "lotus")
	data, _ := document.Marshal(other)
	if _, err := store.Put(ctx, "lib_other", data); err != nil {
		t.Fatal(err)
	}

	s := newTestSession(t, hub)
	original := s.LibraryID()
	placeAgent(t, s, 1, 1)
	drain(s)

	s.handle(ctx, message(t, TypeDocSave, 7, nil))
	var saved SavedPayload
	if err := json.Unmarshal(next(t, s, TypeSaved).Payload, &saved); err != nil {
		t.Fatal(err)
	}
	if saved.ID != original {
		t.Errorf("saved to %q, want %q", saved.ID, original)
	}
	if s.autosave.Pending() {
		t.Error("explicit save left the autosave pending")
	}

	s.handle(ctx, message(t, TypeDocOpen, 8, DocOpenPayload{ID: "lib_other"}))
	var sync DocSyncPayload
	if err := json.Unmarshal(next(t, s, TypeDocSync).Payload, &sync); err != nil {
		t.Fatal(err)
	}
	if sync.Document.MapRef != "lotus" || s.LibraryID() != "lib_other" {
		t.Errorf("opened %q into %q", sync.Document.MapRef, s.LibraryID())
	}
	if s.Editor().Scene().CanUndo() {
		t.Error("history survived open")
	}

	drain(s)
	s.handle(ctx, message(t, TypeDocOpen, 9, DocOpenPayload{ID: "lib_missing"}))
	next(t, s, TypeError)
	if s.LibraryID() != "lib_other" {
		t.Error("failed open switched the library entry")
	}
}

func TestStopFlushesPendingAutosave(t *testing.T) {
	store := library.NewMemoryStore()
	hub := NewHub(Options{Store: store, AutosaveDelay: time.Hour})
	go hub.Run()

	s, err := hub.NewSession(context.Background(), nil, "tester", "")
	if err != nil {
		t.Fatal(err)
	}
	hub.Register(s)
	placeAgent(t, s, 5, 5)

	if err := hub.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(context.Background(), s.LibraryID()); err != nil {
		t.Errorf("pending edit lost on stop: %v", err)
	}
}

func TestNewSessionSources(t *testing.T) {
	store := library.NewMemoryStore()
	hub := NewHub(Options{Store: store, SeedSample: true})

	s, err := hub.NewSession(context.Background(), nil, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Editor().Document().Elements) == 0 {
		t.Error("seeded session has an empty board")
	}

	if _, err := hub.NewSession(context.Background(), nil, "", "lib_missing"); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestWebsocketSession(t *testing.T) {
	hub, _ := newTestHub(t, time.Hour)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, "ws-tester", r.URL.Query().Get("library"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	read := func(typ string) *Message {
		t.Helper()
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatal(err)
			}
			if msg.Type == typ {
				return &msg
			}
		}
	}
	write := func(msg *Message) {
		t.Helper()
		data, _ := json.Marshal(msg)
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			t.Fatal(err)
		}
	}

	var welcome WelcomePayload
	if err := json.Unmarshal(read(TypeWelcome).Payload, &welcome); err != nil {
		t.Fatal(err)
	}
	if welcome.SessionID == "" || welcome.ClientID == "" || welcome.LibraryID == "" {
		t.Errorf("welcome = %+v", welcome)
	}

	write(message(t, TypeToolSet, 1, engine.Tool{Kind: engine.ToolAgent, Ref: "jett"}))
	write(message(t, TypePointer, 2, PointerPayload{Phase: PhaseDown, PointerEvent: engine.PointerEvent{X: 300, Y: 300}}))
	write(message(t, TypePointer, 3, PointerPayload{Phase: PhaseUp, PointerEvent: engine.PointerEvent{X: 300, Y: 300}}))

	var sync DocSyncPayload
	if err := json.Unmarshal(read(TypeDocSync).Payload, &sync); err != nil {
		t.Fatal(err)
	}
	if len(sync.Document.Elements) != 1 {
		t.Errorf("synced %d elements", len(sync.Document.Elements))
	}

	bad := url + "?library=doc_wrongprefix"
	if _, resp, err := websocket.Dial(ctx, bad, nil); err == nil {
		t.Error("dial with an invalid library id succeeded")
	} else if resp != nil && resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
