// Command migrate manages the Postgres schema used by the postgres storage driver.
//
//	migrate up|down|version
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"github.com/hackgods/vortex-care/internal/config"
	"github.com/hackgods/vortex-care/internal/db"
	"github.com/hackgods/vortex-care/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	if cfg.PostgresDSN == "" {
		log.Error("POSTGRES_DSN is required")
		os.Exit(1)
	}

	if err := run(cmd, cfg.PostgresDSN, log); err != nil {
		log.Error("migrate failed", slog.String("command", cmd), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cmd, dsn string, log *slog.Logger) error {
	m, err := db.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		v, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			log.Info("no migrations applied")
			return nil
		}
		if verr != nil {
			return verr
		}
		log.Info("schema version", slog.Uint64("version", uint64(v)), slog.Bool("dirty", dirty))
		return nil
	default:
		return fmt.Errorf("unknown command %q, want up, down or version", cmd)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("no change")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info("migrate complete", slog.String("command", cmd))
	return nil
}
