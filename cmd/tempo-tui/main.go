package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"git.sr.ht/~jakintosh/tempo/internal/config"
	"git.sr.ht/~jakintosh/tempo/internal/store"
	"git.sr.ht/~jakintosh/tempo/internal/tui"
	"git.sr.ht/~jakintosh/tempo/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
)

// getConfigValue returns the CLI flag value if set, otherwise falls back to env var.
func getConfigValue(flagVal, envKey string) string {
	if flagVal != "" {
		return flagVal
	}
	return os.Getenv(envKey)
}

// loadConfig reads the config file and applies flag and env overrides.
func loadConfig(path, dbPath, backend, logFile string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if backend != "" {
		cfg.Storage.Backend = backend
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func main() {
	configPath := flag.String("config", "", "Config file path (env: TEMPO_CONFIG)")
	dbPath := flag.String("db", "", "SQLite database path (env: TEMPO_DB)")
	backend := flag.String("storage", "", "Storage backend: sqlite or memory (env: TEMPO_STORAGE)")
	logFile := flag.String("log-file", "", "Write logs to this file (env: TEMPO_LOG_FILE)")
	flag.Parse()

	cfg, err := loadConfig(
		getConfigValue(*configPath, "TEMPO_CONFIG"),
		getConfigValue(*dbPath, "TEMPO_DB"),
		getConfigValue(*backend, "TEMPO_STORAGE"),
		getConfigValue(*logFile, "TEMPO_LOG_FILE"),
	)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	// The terminal belongs to the UI, so logs go nowhere unless a file is set
	logger, closeLog, err := cfg.Log.NewLogger(io.Discard)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer closeLog()

	storage, err := store.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer storage.Close()

	w := widget.New(storage, widget.OptionsFromConfig(cfg, logger))
	defer w.Close()

	p := tea.NewProgram(tui.New(w), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("UI failed: %v", err)
	}
}
