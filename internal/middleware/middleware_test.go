package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestLoggerKeepsStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	reached := false
	h := CORS([]string{"localhost:5173", "*.boards.test"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	tests := []struct {
		origin string
		allow  bool
	}{
		{"http://localhost:5173", true},
		{"https://team.boards.test", true},
		{"https://boards.test.evil", false},
		{"http://localhost:3000", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/api/library", nil)
		req.Header.Set("Origin", tt.origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		got := rec.Header().Get("Access-Control-Allow-Origin") == tt.origin
		if got != tt.allow {
			t.Errorf("origin %s allowed = %v, want %v", tt.origin, got, tt.allow)
		}
	}

	reached = false
	req := httptest.NewRequest("OPTIONS", "/api/library", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || reached {
		t.Errorf("preflight status = %d, reached = %v", rec.Code, reached)
	}
}
