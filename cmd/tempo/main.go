package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.sr.ht/~jakintosh/tempo/internal/config"
	"git.sr.ht/~jakintosh/tempo/internal/store"
	"git.sr.ht/~jakintosh/tempo/internal/web"
	"git.sr.ht/~jakintosh/tempo/internal/widget"
)

// getConfigValue returns the CLI flag value if set, otherwise falls back to env var.
func getConfigValue(flagVal, envKey string) string {
	if flagVal != "" {
		return flagVal
	}
	return os.Getenv(envKey)
}

func main() {
	// Parse CLI flags
	configPath := flag.String("config", "", "Config file path (env: TEMPO_CONFIG)")
	listen := flag.String("listen", "", "HTTP listen address (env: TEMPO_LISTEN)")
	dbPath := flag.String("db", "", "SQLite database path (env: TEMPO_DB)")
	backend := flag.String("storage", "", "Storage backend, sqlite or memory (env: TEMPO_STORAGE)")
	logLevel := flag.String("log-level", "", "Log level (env: TEMPO_LOG_LEVEL)")
	initConfig := flag.Bool("init-config", false, "Write the default config file and exit")
	flag.Parse()

	// Resolve config with CLI > env > file fallback
	resolvedConfigPath := getConfigValue(*configPath, "TEMPO_CONFIG")
	if *initConfig {
		writeDefaultConfig(resolvedConfigPath)
		return
	}

	cfg, err := config.Load(resolvedConfigPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if v := getConfigValue(*listen, "TEMPO_LISTEN"); v != "" {
		cfg.Web.Listen = v
	}
	if v := getConfigValue(*dbPath, "TEMPO_DB"); v != "" {
		cfg.Storage.Path = v
	}
	if v := getConfigValue(*backend, "TEMPO_STORAGE"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := getConfigValue(*logLevel, "TEMPO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, closeLog, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer closeLog()

	// Initialize Store
	storage, err := store.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer storage.Close()

	w := widget.New(storage, widget.OptionsFromConfig(cfg, logger))
	defer w.Close()

	// Initialize Web Server
	srv, err := web.NewServer(w, logger)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Web.Listen,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// SSE streams end when the widget closes their subscriptions
		w.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}()

	// Start Server
	logger.Info("starting server", "addr", cfg.Web.Listen, "storage", cfg.Storage.Backend)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	logger.Info("server stopped")
}

func writeDefaultConfig(path string) {
	if path == "" {
		resolved, err := config.DefaultPath()
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
		path = resolved
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		log.Fatalf("Failed to write config: %v", err)
	}
	log.Printf("Wrote default config to %s", path)
}
