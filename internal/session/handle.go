package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/engine"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/library"
)

var errUnknownType = errors.New("unknown message type")

// handle applies one client message to the editor and publishes the result.
func (s *Session) handle(ctx context.Context, msg *Message) {
	if err := s.apply(ctx, msg); err != nil {
		slog.Warn("message rejected", "error", err, "type", msg.Type, "session", s.ID)
		s.sendError(msg.Type, err.Error())
	}
	s.publish(msg.Seq)
}

func (s *Session) apply(ctx context.Context, msg *Message) error {
	e := s.editor
	switch msg.Type {
	case TypePointer:
		var p PointerPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		switch p.Phase {
		case PhaseDown:
			e.PointerDown(p.PointerEvent)
		case PhaseMove:
			e.PointerMove(p.PointerEvent)
		case PhaseUp:
			e.PointerUp(p.PointerEvent)
		default:
			return errors.New("unknown pointer phase " + string(p.Phase))
		}
	case TypeKey:
		var k engine.KeyEvent
		if err := decode(msg, &k); err != nil {
			return err
		}
		e.KeyDown(k)
	case TypeWheel:
		var w engine.WheelEvent
		if err := decode(msg, &w); err != nil {
			return err
		}
		e.Wheel(w)
	case TypeToolSet:
		var t engine.Tool
		if err := decode(msg, &t); err != nil {
			return err
		}
		e.SetTool(t)
	case TypeResize:
		var r ResizePayload
		if err := decode(msg, &r); err != nil {
			return err
		}
		e.Resize(r.Width, r.Height)
	case TypeUndo:
		e.Undo()
	case TypeRedo:
		e.Redo()
	case TypeDocNew:
		var p DocNewPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.NewDocument(p.Name, p.MapRef)
	case TypeDocLoad:
		var p DocLoadPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return e.LoadDocument(p.Document)
	case TypeDocSave:
		return s.saveNow(ctx, msg.Seq)
	case TypeDocOpen:
		var p DocOpenPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return s.open(ctx, p.ID)
	case TypeIntermediate:
		var p IntermediatePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return e.SetIntermediatePointCount(p.ID, p.Count)
	case TypeDimension:
		var p DimensionPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return e.SetDimension(p.ID, p.Dimension, p.Value)
	default:
		return errUnknownType
	}
	return nil
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return errors.New("missing payload")
	}
	return json.Unmarshal(msg.Payload, v)
}

// saveNow writes the document to the session's library entry immediately and
// drops the pending autosave it supersedes.
func (s *Session) saveNow(ctx context.Context, seq int64) error {
	s.autosave.Cancel()
	files := &library.Files{Store: s.store, ID: s.LibraryID()}
	id, err := s.editor.SaveAs(ctx, files)
	if err != nil {
		return err
	}
	s.sendPayload(TypeSaved, seq, SavedPayload{ID: id})
	return nil
}

// open replaces the document with a library entry. Pending edits to the
// previous entry are flushed first; later autosaves go to the opened entry.
func (s *Session) open(ctx context.Context, id string) error {
	if err := s.autosave.Flush(ctx); err != nil {
		slog.Error("flush before open", "error", err, "session", s.ID)
	}
	ok, err := s.editor.Open(ctx, &library.Files{Store: s.store, ID: id})
	if err != nil || !ok {
		return err
	}
	s.setLibraryID(id)
	s.docDirty = false
	s.sendPayload(TypeDocSync, 0, DocSyncPayload{Document: s.editor.Document(), Change: "open"})
	return nil
}
