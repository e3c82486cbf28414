package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cropcure/agrichat/cmd/agrichat/ui"
	"github.com/cropcure/agrichat/internal/api"
	"github.com/cropcure/agrichat/internal/config"
	"github.com/cropcure/agrichat/internal/credstore"
	"github.com/cropcure/agrichat/internal/notify"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// The TUI owns the terminal, so logs go to a file instead of stderr.
	logFile, err := openLogFile(cfg.LogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open log file")
	}
	defer logFile.Close()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: logFile, NoColor: true})

	setLogLevel(cfg.LogLevel)

	store, err := credstore.Open(cfg.StorePath())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open credential store")
	}
	defer store.Close()
	log.Info().Str("path", cfg.StorePath()).Msg("credential store opened")

	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout())
	notices := notify.NewChannel(16)

	model := ui.New(ui.Deps{
		Client:       client,
		Store:        store,
		Notices:      notices,
		PollInterval: cfg.PollInterval(),
	})
	defer model.Close()

	log.Info().Str("api", cfg.APIBaseURL).Dur("pollInterval", cfg.PollInterval()).Msg("starting agrichat")

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "agrichat:", err)
		os.Exit(1)
	}

	log.Info().Msg("agrichat stopped")
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
