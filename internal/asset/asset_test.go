package asset

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

func testProvider() *ManifestProvider {
	return NewManifestProvider(Manifest{
		Agents: []Agent{
			{ID: "sova", Name: "Sova", Role: "initiator", Icon: "/assets/sova.png", Abilities: []string{"owl-drone", "recon-bolt"}},
			{ID: "brimstone", Name: "Brimstone", Role: "controller"},
		},
		Maps: []Map{{ID: "ascent", Name: "Ascent", Image: "/assets/ascent.png"}},
	})
}

func newRouter(t *testing.T) (*mux.Router, string) {
	dir := t.TempDir()
	h := NewHandler(dir, testProvider())
	r := mux.NewRouter()
	r.HandleFunc("/api/agents", h.ListAgents).Methods("GET")
	r.HandleFunc("/api/agents/{id}", h.GetAgent).Methods("GET")
	r.HandleFunc("/api/maps/{id}", h.GetMap).Methods("GET")
	r.HandleFunc("/assets/upload", h.Upload).Methods("POST")
	r.PathPrefix("/assets/").Handler(h.Serve()).Methods("GET")
	return r, dir
}

func TestProviderLookup(t *testing.T) {
	p := testProvider()
	a, err := p.Agent("sova")
	if err != nil || a.Role != "initiator" {
		t.Fatalf("agent = %+v, err %v", a, err)
	}
	if _, err := p.Map("lotus"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	agents := p.Agents()
	if len(agents) != 2 || agents[0].ID != "brimstone" {
		t.Errorf("agents = %+v", agents)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()

	p, err := LoadManifest(filepath.Join(dir, "missing.json"))
	if err != nil || len(p.Agents()) != 0 {
		t.Fatalf("missing manifest = %v, %v", p, err)
	}

	path := filepath.Join(dir, "manifest.json")
	data := `{"agents":[{"id":"jett","name":"Jett","role":"duelist"}],"maps":[{"id":"bind","name":"Bind","image":"bind.png"}]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err = LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if m, err := p.Map("bind"); err != nil || m.Image != "bind.png" {
		t.Errorf("map = %+v, err %v", m, err)
	}

	if err := os.WriteFile(path, []byte(`{"agents":`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(path); err == nil {
		t.Error("truncated manifest accepted")
	}
}

func TestMetadataEndpoints(t *testing.T) {
	r, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/agents/sova", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var a Agent
	if err := json.NewDecoder(rec.Body).Decode(&a); err != nil || a.Name != "Sova" {
		t.Errorf("agent = %+v, err %v", a, err)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/maps/nowhere", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing map status = %d", rec.Code)
	}
}

func uploadRequest(t *testing.T, contentType string, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="callout.png"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(payload)
	mw.Close()

	req := httptest.NewRequest("POST", "/assets/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAndServe(t *testing.T) {
	r, dir := newRouter(t)

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "image/png", buf.Bytes()))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body)
	}
	var resp UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Width != 3 || resp.Height != 2 || !strings.HasPrefix(resp.ID, "asset_") {
		t.Errorf("resp = %+v", resp)
	}
	if _, err := os.Stat(filepath.Join(dir, resp.ID+".png")); err != nil {
		t.Errorf("stored file: %v", err)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", resp.URL, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("serve status = %d", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "immutable") {
		t.Errorf("cache-control = %q", cc)
	}
}

func TestUploadRejects(t *testing.T) {
	r, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "image/gif", []byte("GIF89a")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("gif status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "image/png", []byte("not a png")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("corrupt png status = %d", rec.Code)
	}
}
