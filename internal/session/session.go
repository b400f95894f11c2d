package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/autosave"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/engine"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/library"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/scene"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 1 << 20
	sendBuffer = 256
)

// Session is one editor bound to one websocket connection. Incoming messages
// are applied on the read goroutine; the Editor is never touched elsewhere.
type Session struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	editor   *engine.Editor
	autosave *autosave.Task
	store    library.Store

	ID       string
	ClientID string
	Subject  string

	mu        sync.Mutex
	libraryID string

	docDirty   bool
	docChange  scene.ChangeKind
	stateDirty bool
}

// LibraryID is the entry autosaves are written to.
func (s *Session) LibraryID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.libraryID
}

func (s *Session) setLibraryID(id string) {
	s.mu.Lock()
	s.libraryID = id
	s.mu.Unlock()
}

func (s *Session) Editor() *engine.Editor { return s.editor }

func (s *Session) save(ctx context.Context, payload []byte) error {
	_, err := s.store.Put(ctx, s.LibraryID(), payload)
	return err
}

func (s *Session) onEditorEvent(ev engine.Event) {
	if ev.Type == engine.EventDocument {
		s.docDirty = true
		s.docChange = ev.Change
	}
	s.stateDirty = true
}

// ReadPump applies client messages until the connection closes.
func (s *Session) ReadPump(ctx context.Context) {
	defer func() {
		s.hub.Unregister(s)
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	s.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "session", s.ID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "session", s.ID)
			s.sendError("", "invalid message")
			continue
		}
		s.handle(ctx, &msg)
	}
}

func (s *Session) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-s.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "session", s.ID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := s.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Send queues msg for the write pump, dropping it when the buffer is full.
func (s *Session) Send(msg *Message) {
	msg.SessionID = s.ID
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case s.send <- data:
	default:
		slog.Warn("session send buffer full, dropping message", "session", s.ID, "type", msg.Type)
	}
}

func (s *Session) sendPayload(typ string, seq int64, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal payload", "error", err, "type", typ)
		return
	}
	s.Send(&Message{Type: typ, Seq: seq, Payload: data})
}

func (s *Session) sendError(request, message string) {
	s.sendPayload(TypeError, 0, ErrorPayload{Message: message, Request: request})
}

func (s *Session) state() StatePayload {
	return StatePayload{
		Tool:      s.editor.Tool(),
		Selection: s.editor.Selection().IDs(),
		Overlay:   s.editor.Overlay(),
		Viewport:  *s.editor.Viewport(),
	}
}

func (s *Session) welcome() {
	s.sendPayload(TypeWelcome, 0, WelcomePayload{
		SessionID: s.ID,
		ClientID:  s.ClientID,
		LibraryID: s.LibraryID(),
		Document:  s.editor.Document(),
		State:     s.state(),
	})
}

// publish sends whatever the last message changed and arms the autosave
// after document edits.
func (s *Session) publish(seq int64) {
	if s.docDirty {
		sc := s.editor.Scene()
		s.sendPayload(TypeDocSync, seq, DocSyncPayload{
			Document: sc.Document(),
			Change:   string(s.docChange),
			CanUndo:  sc.CanUndo(),
			CanRedo:  sc.CanRedo(),
		})
		if data, err := s.editor.DocumentJSON(); err == nil {
			s.autosave.Arm(data)
		} else {
			slog.Error("serialize document", "error", err, "session", s.ID)
		}
	}
	if s.stateDirty {
		s.sendPayload(TypeState, seq, s.state())
	}
	s.docDirty, s.stateDirty = false, false
}

// close stops the write pump. The pending autosave is left for the hub to flush.
func (s *Session) close() {
	close(s.send)
}
