package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	reconciliation "accessdeck/contexts/identity-access/reconciliation-service"
	"accessdeck/contexts/identity-access/reconciliation-service/adapters/events"
	reconmemory "accessdeck/contexts/identity-access/reconciliation-service/adapters/memory"
	reconpostgres "accessdeck/contexts/identity-access/reconciliation-service/adapters/postgres"
	"accessdeck/contexts/identity-access/reconciliation-service/application/workers"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"
	"accessdeck/internal/platform/config"
	"accessdeck/internal/platform/db"
	"accessdeck/internal/platform/httpserver"
	"accessdeck/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres    *db.Postgres
	jobs        ports.SyncJobSource
	monitor     *workers.SyncStatusMonitor
	outboxRelay workers.OutboxRelay
	runMonitor  bool
	runRelay    bool
	runningPoll time.Duration
	idlePoll    time.Duration
	logger      *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := reconpostgres.NewRepository(pg.DB, logger)
	// Views live in process memory; recompute-on-next-read makes a restart
	// equivalent to a full invalidation.
	views := reconmemory.NewStore()
	module := reconciliation.NewModule(reconciliation.Dependencies{
		Directory:   repo,
		Jobs:        repo,
		Writer:      repo,
		Views:       views,
		Outbox:      repo,
		Publisher:   events.NewPublisher(nil, "", logger),
		Clock:       reconpostgres.SystemClock{},
		IDGenerator: reconpostgres.UUIDGenerator{},
		RunningPoll: cfg.RunningPollInterval,
		IdlePoll:    cfg.IdlePollInterval,
		Logger:      logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := reconpostgres.NewRepository(pg.DB, logger)
	publisher := events.NewPublisher(kafka, "", logger)
	return &WorkerApp{
		postgres: pg,
		jobs:     repo,
		monitor: &workers.SyncStatusMonitor{
			Jobs:        repo,
			Publisher:   publisher,
			Clock:       reconpostgres.SystemClock{},
			IDGenerator: reconpostgres.UUIDGenerator{},
			Logger:      logger,
		},
		outboxRelay: workers.OutboxRelay{
			Outbox:    repo,
			Publisher: publisher,
			Clock:     reconpostgres.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		runMonitor:  cfg.EnableSyncMonitor,
		runRelay:    cfg.EnableOutboxRelay,
		runningPoll: cfg.RunningPollInterval,
		idlePoll:    cfg.IdlePollInterval,
		logger:      logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"running_poll", w.runningPoll.String(),
		"idle_poll", w.idlePoll.String(),
	)

	for {
		if w.runMonitor {
			if err := w.monitor.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.runRelay {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}

		interval, err := w.nextInterval(ctx)
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// nextInterval polls faster while any sync job is running so completions are
// announced promptly.
func (w *WorkerApp) nextInterval(ctx context.Context) (time.Duration, error) {
	records, err := w.jobs.SyncJobs(ctx)
	if err != nil {
		return 0, err
	}
	return w.monitor.NextInterval(records, w.runningPoll, w.idlePoll), nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
