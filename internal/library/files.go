package library

import (
	"context"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/engine"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/typeid"
)

// Files adapts a Store to the editor's file dialogs. The entry id plays the
// role of the file path: Save writes to ID, allocating one on first use, and
// Open reads ID. An empty ID on Open is treated as a cancelled dialog.
type Files struct {
	Store Store
	ID    string
}

var _ engine.FileService = (*Files)(nil)

func (f *Files) Save(ctx context.Context, data []byte) (string, error) {
	if f.ID == "" {
		f.ID = typeid.NewLibraryID()
	}
	if _, err := f.Store.Put(ctx, f.ID, data); err != nil {
		return "", err
	}
	return f.ID, nil
}

func (f *Files) Open(ctx context.Context) (*engine.OpenedFile, error) {
	if f.ID == "" {
		return nil, nil
	}
	entry, err := f.Store.Get(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	return &engine.OpenedFile{Path: entry.ID, Content: entry.Content}, nil
}
