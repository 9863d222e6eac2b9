package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackgods/vortex-care/internal/app"
	"github.com/hackgods/vortex-care/internal/config"
	"github.com/hackgods/vortex-care/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)
	log.Info("reminder-worker starting up",
		slog.String("env", cfg.Env),
		slog.Duration("interval", cfg.WorkerInterval),
		slog.Duration("window", cfg.ReminderWindow),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCtx, cancelInit := context.WithTimeout(rootCtx, 30*time.Second)
	a, err := app.New(initCtx, cfg, log)
	cancelInit()
	if err != nil {
		log.Error("app init error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer a.Close()

	runOnce(rootCtx, a)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Info("shutdown signal received, stopping reminder worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, a)
		}
	}
}

// runOnce sends due reminders and drops expired sessions.
func runOnce(ctx context.Context, a *app.App) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	sent, err := a.Clinic.SendDueReminders(runCtx)
	a.Metrics.RecordRemindersSent(sent)
	if err != nil {
		a.Log.Error("reminder run error", slog.String("error", err.Error()), slog.Int("sent", sent))
		return
	}

	pruned, err := a.Identity.PruneSessions(runCtx)
	if err != nil {
		a.Log.Warn("session prune error", slog.String("error", err.Error()))
	}

	a.Log.Info("reminder run complete",
		slog.Int("sent", sent),
		slog.Int("sessions_pruned", pruned),
		slog.Duration("took", time.Since(start)),
	)
}
