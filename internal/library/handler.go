package library

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/auth"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/typeid"
)

const maxDocumentSize = 4 << 20

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Register mounts the library routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/library", h.List).Methods("GET")
	r.HandleFunc("/library", h.Create).Methods("POST")
	r.HandleFunc("/library/{id}", h.Get).Methods("GET")
	r.HandleFunc("/library/{id}", h.Put).Methods("PUT")
	r.HandleFunc("/library/{id}", h.Delete).Methods("DELETE")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context())
	if err != nil {
		slog.Error("list library failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	entry, err := h.store.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.put(w, r, typeid.NewLibraryID(), http.StatusCreated)
}

func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := typeid.Validate(id, typeid.PrefixLibrary); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid library id"})
		return
	}
	h.put(w, r, id, http.StatusOK)
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request, id string, status int) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "document too large"})
		return
	}

	entry, err := h.store.Put(r.Context(), id, body)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	slog.Info("library entry saved", "id", id, "bytes", len(body), "subject", auth.SubjectFromContext(r.Context()))
	writeJSON(w, status, entry)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrInvalidContent):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("library error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
