package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/typeid"
)

const maxUploadSize = 10 << 20 // 10MB

// UploadResponse is returned from the upload endpoint. ID is the value image
// drawings store in imageRef.
type UploadResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Name   string `json:"name"`
}

// Handler serves agent and map metadata, image uploads and stored files.
type Handler struct {
	dir      string
	provider Provider
}

// NewHandler creates an asset handler that stores files in dir.
func NewHandler(dir string, provider Provider) *Handler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create asset dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir, provider: provider}
}

func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.Agents())
}

func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	a, err := h.provider.Agent(mux.Vars(r)["id"])
	if err != nil {
		handleLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) ListMaps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.Maps())
}

func (h *Handler) GetMap(w http.ResponseWriter, r *http.Request) {
	m, err := h.provider.Map(mux.Vars(r)["id"])
	if err != nil {
		handleLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Upload handles POST /assets/upload (multipart form with "file" field). The
// image is re-encoded as PNG under a fresh asset id.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large (max 10MB)", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/png") && !strings.HasPrefix(contentType, "image/jpeg") {
		http.Error(w, "only PNG and JPEG images are supported", http.StatusBadRequest)
		return
	}

	img, _, err := image.Decode(file)
	if err != nil {
		http.Error(w, "invalid image: "+err.Error(), http.StatusBadRequest)
		return
	}
	bounds := img.Bounds()

	assetID := typeid.NewAssetID()
	filename := assetID + ".png"
	filePath := filepath.Join(h.dir, filename)

	out, err := os.Create(filePath)
	if err != nil {
		slog.Error("create asset file", "error", err)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		slog.Error("encode png", "error", err)
		os.Remove(filePath)
		http.Error(w, "failed to encode image", http.StatusInternalServerError)
		return
	}

	slog.Info("asset uploaded", "id", assetID, "name", header.Filename)
	writeJSON(w, http.StatusOK, UploadResponse{
		ID:     assetID,
		URL:    fmt.Sprintf("/assets/%s", filename),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Name:   header.Filename,
	})
}

// Serve returns an http.Handler that serves stored asset files with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// asset ids are never reused
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

func handleLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	slog.Error("asset lookup failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
