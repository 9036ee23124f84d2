package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/scoutkit/analysis/internal/api/tba"
	"github.com/scoutkit/analysis/internal/bot"
	"github.com/scoutkit/analysis/internal/config"
	"github.com/scoutkit/analysis/internal/game"
	"github.com/scoutkit/analysis/internal/repository/memory"
	"github.com/scoutkit/analysis/internal/scheduler"
	"github.com/scoutkit/analysis/internal/service"
	"github.com/scoutkit/analysis/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	dataStore := store.New(cfg.Data.Dir)
	if err := dataStore.EnsureLayout(); err != nil {
		return err
	}

	event, err := dataStore.LoadEvent()
	if err != nil {
		return err
	}
	adapter, err := game.ForYear(event.Year)
	if err != nil {
		return err
	}
	slog.Info("Starting analysis", "event", event.Key, "season", adapter.Name())

	tbaClient := tba.NewClient(cfg.TBA)
	tbaAPI := tba.NewAPI(tbaClient)
	repo := memory.NewRepository()

	cacheTTL := time.Duration(cfg.TBA.CacheMinutes) * time.Minute
	scouting := service.NewScoutingService(dataStore, adapter, tbaAPI, repo, cacheTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scouting.LoadAll(ctx); err != nil {
		return err
	}

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, scouting)
	if err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(scouting, cfg.Data.SyncCron, telegramBot.SendMessage)
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	http.HandleFunc("/", healthCheckHandler)

	go func() {
		if err := http.ListenAndServe(":80", nil); err != nil {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
