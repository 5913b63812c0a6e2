package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"famcare/internal/api"
	"famcare/internal/codec"
	"famcare/internal/config"
	"famcare/internal/provider"
	"famcare/internal/watcher"
)

func main() {
	// Command line flags override the config file
	addr := flag.String("addr", "", "HTTP listen address")
	configPath := flag.String("config", "", "config file path")
	dbPath := flag.String("db", "", "SQLite database path (empty for in-memory)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting famcare server...")

	var (
		cfg        *config.Config
		loadedFrom string
		err        error
	)
	if *configPath != "" {
		cfg, loadedFrom, err = config.LoadFromPath(*configPath)
	} else {
		cfg, loadedFrom, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if loadedFrom != "" {
		log.Printf("Config loaded from %s", loadedFrom)
	} else {
		log.Println("No config file found, using defaults")
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	prov, err := provider.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize backend: %v", err)
	}
	defer prov.Close()

	filesDir := ""
	if prov.Backend() == provider.BackendSQLite {
		filesDir = cfg.Storage.Dir
	}
	apiServer := api.NewServer(prov, filesDir)

	// Optional archive auto-import: re-import the watched file whenever
	// it is replaced.
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Import.Path != "" {
		w := watcher.New(cfg.Import.Path, func() {
			if err := importArchive(watchCtx, prov, cfg.Import.Path); err != nil {
				log.Printf("Archive import failed: %v", err)
			}
		})
		go func() {
			if err := w.Watch(watchCtx); err != nil && err != context.Canceled {
				log.Printf("Archive watcher stopped: %v", err)
			}
		}()
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      apiServer.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s (%s backend)", cfg.Server.Addr, prov.Backend())
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// importArchive loads the archive file and creates its records
func importArchive(ctx context.Context, prov *provider.Provider, path string) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	c := codec.ForFormat(format)
	if c == nil {
		return fmt.Errorf("unknown archive format %q", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	archive, err := c.Parse(f)
	if err != nil {
		return err
	}

	result, err := prov.ImportArchive(ctx, archive)
	if err != nil {
		return err
	}
	log.Printf("Imported archive %s: %d events, %d photos, %d recordings, %d skipped",
		path, result.Events, result.Photos, result.Recordings, result.Skipped)
	return nil
}
