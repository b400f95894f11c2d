// Package session serves editor sessions over websockets. Each connection owns
// one engine.Editor driven by input messages; document edits are pushed back
// to the client and autosaved to the library.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/autosave"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/engine"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/library"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/typeid"
)

type Options struct {
	Catalog       engine.AbilityCatalog
	Store         library.Store
	AutosaveDelay time.Duration
	// SeedSample starts new sessions with the sample board instead of an
	// empty one.
	SeedSample bool
	// OriginPatterns is passed to websocket.Accept.
	OriginPatterns []string
}

type Hub struct {
	opts Options

	mu         sync.RWMutex
	sessions   map[string]*Session
	register   chan *Session
	unregister chan *Session
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(opts Options) *Hub {
	return &Hub{
		opts:       opts,
		sessions:   make(map[string]*Session),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case s := <-h.register:
			h.addSession(s)
		case s := <-h.unregister:
			h.removeSession(s)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) Register(s *Session) {
	select {
	case h.register <- s:
	case <-h.done:
	}
}

func (h *Hub) Unregister(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

func (h *Hub) addSession(s *Session) {
	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	slog.Info("session opened", "session", s.ID, "subject", s.Subject, "library", s.LibraryID())
}

func (h *Hub) removeSession(s *Session) {
	h.mu.Lock()
	if _, ok := h.sessions[s.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sessions, s.ID)
	h.mu.Unlock()

	s.close()

	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	if err := s.autosave.Flush(ctx); err != nil {
		slog.Error("flush on close failed", "error", err, "session", s.ID)
	}
	slog.Info("session closed", "session", s.ID)
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Stop ends the run loop and flushes every pending autosave.
func (h *Hub) Stop(ctx context.Context) error {
	h.stopOnce.Do(func() { close(h.done) })

	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	var errs []error
	for _, s := range sessions {
		if err := s.autosave.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", s.ID, err))
		}
	}
	slog.Info("sessions flushed", "count", len(sessions))
	return errors.Join(errs...)
}

// NewSession builds a session editing the library entry libraryID, or a fresh
// document under a new entry when libraryID is empty. conn may be nil for
// sessions that are driven without a websocket.
func (h *Hub) NewSession(ctx context.Context, conn *websocket.Conn, subject, libraryID string) (*Session, error) {
	var doc *document.Document
	if libraryID != "" {
		entry, err := h.opts.Store.Get(ctx, libraryID)
		if err != nil {
			return nil, err
		}
		if doc, err = document.Parse(entry.Content); err != nil {
			return nil, err
		}
	} else {
		libraryID = typeid.NewLibraryID()
		if h.opts.SeedSample {
			doc = document.NewSampleDocument(typeid.NewDocumentID())
		}
	}

	s := &Session{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		store:     h.opts.Store,
		editor:    engine.NewEditor(h.opts.Catalog, doc),
		ID:        typeid.NewSessionID(),
		ClientID:  uuid.New().String(),
		Subject:   subject,
		libraryID: libraryID,
	}
	s.autosave = autosave.New(h.opts.AutosaveDelay, s.save)
	s.editor.Subscribe(s.onEditorEvent)
	return s, nil
}

// Serve upgrades the request and runs a session until the connection closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, subject, libraryID string) {
	if libraryID != "" {
		if err := typeid.Validate(libraryID, typeid.PrefixLibrary); err != nil {
			http.Error(w, "invalid library id", http.StatusBadRequest)
			return
		}
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.opts.OriginPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	ctx := r.Context()
	s, err := h.NewSession(ctx, conn, subject, libraryID)
	if err != nil {
		status := websocket.StatusInternalError
		reason := "internal error"
		if errors.Is(err, library.ErrNotFound) {
			status, reason = websocket.StatusPolicyViolation, "library entry not found"
		} else {
			slog.Error("create session", "error", err, "library", libraryID)
		}
		conn.Close(status, reason)
		return
	}

	s.welcome()
	h.Register(s)
	go s.WritePump(ctx)
	s.ReadPump(ctx)
}
