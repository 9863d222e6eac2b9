// Package app assembles the storage backend and domain services from config.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/vortex-care/internal/clinic"
	"github.com/hackgods/vortex-care/internal/config"
	"github.com/hackgods/vortex-care/internal/db"
	"github.com/hackgods/vortex-care/internal/identity"
	"github.com/hackgods/vortex-care/internal/metrics"
	"github.com/hackgods/vortex-care/internal/recruitment"
	redisclient "github.com/hackgods/vortex-care/internal/redis"
	"github.com/hackgods/vortex-care/internal/security"
	"github.com/hackgods/vortex-care/internal/seed"
	"github.com/hackgods/vortex-care/internal/storage"
	"github.com/hackgods/vortex-care/internal/storage/mongostore"
	"github.com/hackgods/vortex-care/internal/storage/postgres"
	"github.com/hackgods/vortex-care/internal/storage/redisstore"
	"github.com/hackgods/vortex-care/internal/storage/s3store"
	"github.com/hackgods/vortex-care/internal/storage/sqlite"
	"github.com/hackgods/vortex-care/internal/store"
	"github.com/hackgods/vortex-care/internal/validate"
)

const tokenIssuer = "vortex-care"

// App holds everything the HTTP server and workers share.
type App struct {
	Config    config.Config
	Log       *slog.Logger
	KV        storage.Store
	Redis     *redis.Client // nil when no Redis is configured
	Registry  *prometheus.Registry
	Metrics   *metrics.Collector
	Validator *validate.Validator
	Sanitizer *security.Sanitizer

	Identity    *identity.Service
	Recruitment *recruitment.Service
	Clinic      *clinic.Service
}

// New connects the configured backend and opens every store.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	a := &App{
		Config:    cfg,
		Log:       log,
		Registry:  prometheus.NewRegistry(),
		Validator: validate.New(),
		Sanitizer: security.NewSanitizer(),
	}
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.NewCollector(a.Registry)

	if cfg.RedisAddr != "" {
		rdb, err := redisclient.NewClient(ctx, redisclient.Options{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return nil, err
		}
		a.Redis = rdb
		log.Info("connected to redis", slog.String("addr", cfg.RedisAddr))
	}

	kv, err := OpenStorage(ctx, cfg, a.Redis)
	if err != nil {
		a.closeRedis()
		return nil, err
	}
	a.KV = kv
	log.Info("storage ready", slog.String("driver", cfg.StorageDriver))

	if err := a.openServices(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) openServices(ctx context.Context) error {
	cfg := a.Config
	opts := []store.Option{store.WithObserver(a.Metrics), store.WithLogger(a.Log)}
	if a.Redis != nil {
		opts = append(opts, store.WithLocker(redisclient.NewRedisLocker(a.Redis, cfg.LockTTL, cfg.LockWait)))
	}

	hasher := identity.NewBcryptHasher(cfg.BcryptCost)
	tokens, err := identity.NewTokenIssuer(cfg.JWTSecret, tokenIssuer)
	if err != nil {
		return err
	}

	var seedErr error
	users, err := identity.OpenUsers(ctx, a.KV, func() []identity.User {
		u, err := seed.Users(seed.DefaultAccounts(cfg.SeedAdminPassword), hasher)
		if err != nil {
			seedErr = err
			return []identity.User{}
		}
		return u
	}, opts...)
	if err != nil {
		return fmt.Errorf("open users: %w", err)
	}
	if seedErr != nil {
		return fmt.Errorf("seed users: %w", seedErr)
	}
	sessions, err := identity.OpenSessions(ctx, a.KV, opts...)
	if err != nil {
		return fmt.Errorf("open sessions: %w", err)
	}
	a.Identity = identity.NewService(users, sessions, hasher, tokens,
		identity.Config{SessionTTL: cfg.SessionTTL}, a.Log.With(slog.String("component", "identity")))

	rrepos, err := recruitment.Open(ctx, a.KV, seed.Recruitment, opts...)
	if err != nil {
		return fmt.Errorf("open recruitment: %w", err)
	}
	a.Recruitment = recruitment.NewService(rrepos, a.Log.With(slog.String("component", "recruitment")))

	crepos, err := clinic.Open(ctx, a.KV, seed.Clinic, opts...)
	if err != nil {
		return fmt.Errorf("open clinic: %w", err)
	}
	clinicLog := a.Log.With(slog.String("component", "clinic"))
	a.Clinic = clinic.NewService(crepos, clinic.LogNotifier{Log: clinicLog}, clinic.Config{
		Location:       cfg.ClinicLocation,
		ReminderWindow: cfg.ReminderWindow,
		MaxEvents:      cfg.AuditMaxEvents,
	}, clinicLog)
	return nil
}

// OpenStorage connects the snapshot backend named by cfg.StorageDriver. rdb
// is reused by the redis driver.
func OpenStorage(ctx context.Context, cfg config.Config, rdb *redis.Client) (storage.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return storage.NewMemory(), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.SQLitePath)
	case config.DriverPostgres:
		if err := db.RunMigrations(cfg.PostgresDSN); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		pool, err := db.ConnectPostgres(ctx, db.PoolConfig{DSN: cfg.PostgresDSN, AppName: tokenIssuer})
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(pool), nil
	case config.DriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis driver needs a redis connection")
		}
		return redisstore.NewStore(rdb, "vortex:"), nil
	case config.DriverMongo:
		return mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverS3:
		return s3store.New(ctx, s3store.Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
			Prefix:    cfg.S3Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Ping reports the health of each dependency by name.
func (a *App) Ping(ctx context.Context) map[string]error {
	out := map[string]error{"storage": a.KV.Ping(ctx)}
	if a.Redis != nil {
		out["redis"] = a.Redis.Ping(ctx).Err()
	}
	return out
}

func (a *App) Close() error {
	var err error
	if a.KV != nil {
		err = a.KV.Close()
	}
	a.closeRedis()
	return err
}

func (a *App) closeRedis() {
	if a.Redis == nil {
		return
	}
	if err := a.Redis.Close(); err != nil {
		a.Log.Warn("error closing redis", slog.String("error", err.Error()))
	}
}
