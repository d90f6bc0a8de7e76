package main

import (
	"context"
	"log"

	"github.com/Vovarama1992/go-utils/logger"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Vovarama1992/indic_dubber/internal/config"
	"github.com/Vovarama1992/indic_dubber/internal/playback"
	"github.com/Vovarama1992/indic_dubber/internal/session"
	"github.com/Vovarama1992/indic_dubber/internal/speech"
	"github.com/Vovarama1992/indic_dubber/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// экран занят TUI, логи пишем в файл
	baseLogger, err := cfg.NewZap(cfg.TUILogFile)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	player, err := playback.NewCommand(cfg.PlayerCmd)
	if err != nil {
		log.Fatalf("player: %v", err)
	}
	defer player.Stop()

	backend := speech.NewBackendClient(cfg.BackendURL, nil)
	sess := session.New(speech.NewService(backend, backend), player, zl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(tui.New(ctx, sess), tea.WithAltScreen())
	sess.Subscribe(tui.Notify(p))

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "tui started, backend " + cfg.BackendURL + ", session " + sess.ID(),
		Service: "dubber",
	})

	if _, err := p.Run(); err != nil {
		log.Fatalf("tui: %v", err)
	}
}
