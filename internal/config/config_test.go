package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d", cfg.Port)
	}
	if cfg.AutosaveDelay != 2*time.Second {
		t.Errorf("autosave delay = %v", cfg.AutosaveDelay)
	}
	if cfg.LibraryDriver != "sqlite" {
		t.Errorf("driver = %q", cfg.LibraryDriver)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTOSAVE_DELAY", "250ms")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ALLOWED_ORIGINS", " a.test , ,b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9090 || cfg.AutosaveDelay != 250*time.Millisecond {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("level = %v", cfg.SlogLevel())
	}
	if got := cfg.Origins(); !reflect.DeepEqual(got, []string{"a.test", "b.test"}) {
		t.Errorf("origins = %v", got)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("AUTOSAVE_DELAY", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected an error for an unparsable duration")
	}
}

func TestSlogLevelFallback(t *testing.T) {
	cfg := &Config{LogLevel: "loud"}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Error("unknown level should fall back to info")
	}
}
