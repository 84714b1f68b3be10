package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/yurei/config"
	"github.com/jon4hz/yurei/database"
	"github.com/jon4hz/yurei/notify/webpush"
	"github.com/jon4hz/yurei/scheduler"
)

// Engine holds the voting and achievement core. The database and the
// broadcaster are injected collaborators, nothing in here reaches for
// ambient global state.
type Engine struct {
	cfg         *config.Config
	db          database.DB
	broadcaster Broadcaster
	push        *webpush.Client
	scheduler   *scheduler.Scheduler
}

// New creates a new engine.
func New(cfg *config.Config, db database.DB, broadcaster Broadcaster, push *webpush.Client) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	sched, err := scheduler.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Engine{
		cfg:         cfg,
		db:          db,
		broadcaster: broadcaster,
		push:        push,
		scheduler:   sched,
	}, nil
}

// Run registers the periodic jobs and blocks until the context is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	interval := time.Duration(e.cfg.ScoreRefreshInterval) * time.Minute
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	err := e.scheduler.AddJob(
		"score-refresh",
		"Recompute hidden gem scores for all categories",
		interval,
		e.RefreshAllScores,
	)
	if err != nil {
		return fmt.Errorf("failed to schedule score refresh: %w", err)
	}

	e.scheduler.Start()
	log.Info("engine started", "score_refresh_interval", interval)

	<-ctx.Done()

	if err := e.scheduler.Shutdown(); err != nil {
		log.Error("failed to shut down scheduler", "error", err)
	}
	return nil
}
