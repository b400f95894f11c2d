// Package export moves library entries in and out of the server as standalone
// .json files.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/library"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/typeid"
)

const maxUploadSize = 4 << 20

type Handler struct {
	store library.Store
}

func NewHandler(store library.Store) *Handler {
	return &Handler{store: store}
}

// Export handles GET /api/library/{id}/export and streams the document as an
// indented attachment named after the board.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	entry, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		slog.Error("export lookup failed", "error", err, "id", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var out bytes.Buffer
	if err := json.Indent(&out, entry.Content, "", "  "); err != nil {
		slog.Error("indent document", "error", err, "id", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	out.WriteByte('\n')

	name := sanitize(entry.Name)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(out.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(out.Bytes())

	slog.Info("export complete", "id", id, "size", out.Len())
}

// Import handles POST /api/library/import (multipart form with a "file"
// field) and stores the document under a new entry.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "request too large", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read upload", http.StatusBadRequest)
		return
	}

	entry, err := h.store.Put(r.Context(), typeid.NewLibraryID(), data)
	if err != nil {
		if errors.Is(err, library.ErrInvalidContent) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("import failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.Info("import complete", "id", entry.ID, "file", header.Filename)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// sanitize keeps a filename to ASCII letters, digits, '-' and '_'.
func sanitize(name string) string {
	if name == "" {
		return "board"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
