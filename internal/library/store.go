// Package library persists saved tactic documents. Entries are keyed by a
// lib_ typeid and always hold a document that passed document.Parse.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
)

var (
	ErrNotFound       = errors.New("library entry not found")
	ErrInvalidContent = errors.New("invalid library content")
)

type Entry struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	MapRef    string          `json:"mapRef"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Content   json.RawMessage `json:"content,omitempty"`
}

type Store interface {
	// Put creates or replaces the entry with the given id.
	Put(ctx context.Context, id string, content []byte) (*Entry, error)
	Get(ctx context.Context, id string) (*Entry, error)
	// List returns every entry without content, most recently updated first.
	List(ctx context.Context) ([]Entry, error)
	Delete(ctx context.Context, id string) error
}

// newEntry validates content and normalizes it through the document codec.
func newEntry(id string, content []byte, now time.Time) (*Entry, error) {
	doc, err := document.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidContent, err)
	}
	normalized, err := document.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return &Entry{
		ID:        id,
		Name:      doc.Name,
		MapRef:    doc.MapRef,
		UpdatedAt: now.UTC(),
		Content:   normalized,
	}, nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].UpdatedAt.Equal(entries[j].UpdatedAt) {
			return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry), now: time.Now}
}

func (s *MemoryStore) Put(_ context.Context, id string, content []byte) (*Entry, error) {
	entry, err := newEntry(id, content, s.now())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.entries[id] = entry
	s.mu.Unlock()

	out := *entry
	out.Content = nil
	return &out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *entry
	out.Content = append(json.RawMessage(nil), entry.Content...)
	return &out, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	out := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		e := *entry
		e.Content = nil
		out = append(out, e)
	}
	s.mu.RUnlock()

	sortEntries(out)
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}
