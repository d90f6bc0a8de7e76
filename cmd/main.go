package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/indic_dubber/internal/config"
	"github.com/Vovarama1992/indic_dubber/internal/delivery"
	"github.com/Vovarama1992/indic_dubber/internal/playback"
	"github.com/Vovarama1992/indic_dubber/internal/session"
	"github.com/Vovarama1992/indic_dubber/internal/speech"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func main() {

	// =========================================================================
	// ENV / LOGGER
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	baseLogger, err := cfg.NewZap()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// CLIENTS / SESSION
	// =========================================================================

	backend := speech.NewBackendClient(cfg.BackendURL, nil)
	speechService := speech.NewService(backend, backend)

	player := playback.NewPointer()
	sess := session.New(speechService, player, zl)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	delivery.RegisterRoutes(r, delivery.NewHandler(sess, player, zl), cfg.RateLimitPerMinute)

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zl.Log(logger.LogEntry{
			Level:   "info",
			Message: "listening at " + addr + ", backend " + cfg.BackendURL + ", session " + sess.ID(),
			Service: "dubber",
		})
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zl.Log(logger.LogEntry{Level: "error", Message: "graceful shutdown failed", Service: "dubber", Error: err})
	}
}
