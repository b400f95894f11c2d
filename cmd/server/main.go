package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/asset"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/auth"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/catalog"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/config"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/db"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/export"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/library"
	mw "github.com/MauAlvarado43/open-valobook-sub000/internal/middleware"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	// hash-key <key> prints a value for ACCESS_KEY_HASH
	if len(os.Args) == 3 && os.Args[1] == "hash-key" {
		hash, err := auth.HashAccessKey(os.Args[2])
		if err != nil {
			slog.Error("hash key", "error", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		if cat, err = catalog.LoadFile(cfg.CatalogPath); err != nil {
			slog.Error("load catalog", "error", err, "path", cfg.CatalogPath)
			os.Exit(1)
		}
	}
	slog.Info("catalog loaded", "abilities", len(cat.Keys()))

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("open library", "error", err, "driver", cfg.LibraryDriver)
		os.Exit(1)
	}
	defer closeStore()

	manifest, err := asset.LoadManifest(filepath.Join(cfg.AssetDir, "manifest.json"))
	if err != nil {
		slog.Error("load asset manifest", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(cfg.JWTSecret, cfg.AccessKeyHash, cfg.TokenTTL)
	authHandler := auth.NewHandler(authService)

	hub := session.NewHub(session.Options{
		Catalog:        cat,
		Store:          store,
		AutosaveDelay:  cfg.AutosaveDelay,
		SeedSample:     cfg.SeedSample,
		OriginPatterns: cfg.Origins(),
	})
	go hub.Run()

	assetHandler := asset.NewHandler(cfg.AssetDir, manifest)
	libraryHandler := library.NewHandler(store)
	exportHandler := export.NewHandler(store)

	r := mux.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/auth/token", authHandler.Login).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Static assets and game metadata are public
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")
	r.HandleFunc("/api/agents", assetHandler.ListAgents).Methods("GET")
	r.HandleFunc("/api/agents/{id}", assetHandler.GetAgent).Methods("GET")
	r.HandleFunc("/api/maps", assetHandler.ListMaps).Methods("GET")
	r.HandleFunc("/api/maps/{id}", assetHandler.GetMap).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.Middleware)
	if !authService.LoginRequired() {
		slog.Warn("ACCESS_KEY_HASH is not set; library API and boards are open to anyone")
	}
	api.HandleFunc("/library/import", exportHandler.Import).Methods("POST")
	api.HandleFunc("/library/{id}/export", exportHandler.Export).Methods("GET")
	libraryHandler.Register(api)

	wsHandler := func(w http.ResponseWriter, r *http.Request) {
		subject, err := authService.Subject(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		hub.Serve(w, r, subject, mux.Vars(r)["libraryId"])
	}
	r.HandleFunc("/ws/board", wsHandler)
	r.HandleFunc("/ws/board/{libraryId}", wsHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		// Flush autosaves before the store is closed
		if err := hub.Stop(shutdownCtx); err != nil {
			slog.Error("flush sessions", "error", err)
		}
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "library", cfg.LibraryDriver)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (library.Store, func(), error) {
	switch cfg.LibraryDriver {
	case "memory":
		return library.NewMemoryStore(), func() {}, nil
	case "sqlite":
		sqlDB, err := library.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		store, err := library.NewSQLiteStore(ctx, sqlDB)
		if err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		return store, closeDB(sqlDB), nil
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store, err := library.NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown library driver %q", cfg.LibraryDriver)
	}
}

func closeDB(d *sql.DB) func() {
	return func() {
		if err := d.Close(); err != nil {
			slog.Error("close sqlite", "error", err)
		}
	}
}
