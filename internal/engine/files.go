package engine

import (
	"context"
	"fmt"
)

// OpenedFile is a document picked by a FileService.
type OpenedFile struct {
	Path    string
	Content []byte
}

// FileService saves and opens documents on behalf of the user. Save returns
// "" and Open returns nil when the user cancels.
type FileService interface {
	Save(ctx context.Context, data []byte) (string, error)
	Open(ctx context.Context) (*OpenedFile, error)
}

// SaveAs hands the current document to fs and returns the chosen path.
func (e *Editor) SaveAs(ctx context.Context, fs FileService) (string, error) {
	data, err := e.DocumentJSON()
	if err != nil {
		return "", err
	}
	path, err := fs.Save(ctx, data)
	if err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}
	return path, nil
}

// Open loads a document picked through fs. It reports false when the user
// cancelled; the current document is kept on any error.
func (e *Editor) Open(ctx context.Context, fs FileService) (bool, error) {
	f, err := fs.Open(ctx)
	if err != nil {
		return false, fmt.Errorf("open document: %w", err)
	}
	if f == nil {
		return false, nil
	}
	if err := e.LoadDocument(f.Content); err != nil {
		return false, fmt.Errorf("open %s: %w", f.Path, err)
	}
	return true, nil
}
