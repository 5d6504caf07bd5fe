package app

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/ordo/internal/common"
	"github.com/ternarybob/ordo/internal/handlers"
	"github.com/ternarybob/ordo/internal/interfaces"
	"github.com/ternarybob/ordo/internal/services/llm"
	"github.com/ternarybob/ordo/internal/services/refresh"
	"github.com/ternarybob/ordo/internal/services/responder"
	"github.com/ternarybob/ordo/internal/services/snapshot"
	"github.com/ternarybob/ordo/internal/services/source"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Data services
	OrderSource    interfaces.OrderSource
	SnapshotStore  interfaces.SnapshotStore
	RefreshService interfaces.RefreshService

	// LLM services
	Provider      llm.Provider
	AnswerService interfaces.AnswerService

	// HTTP handlers
	APIHandler     *handlers.APIHandler
	StatusHandler  *handlers.StatusHandler
	QueryHandler   *handlers.QueryHandler
	RefreshHandler *handlers.RefreshHandler
	StatsHandler   *handlers.StatsHandler
}

// New wires all services and handlers from configuration. The refresh
// loop is constructed but not started; main runs the initial synchronous
// cycle before starting it.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	orderSource, err := source.NewPostgresSource(config.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize order source: %w", err)
	}

	store := snapshot.NewStore(config.Snapshot.Path, logger)

	interval, err := time.ParseDuration(config.Refresh.Interval)
	if err != nil {
		orderSource.Close()
		return nil, fmt.Errorf("invalid refresh interval '%s': %w", config.Refresh.Interval, err)
	}
	refreshService := refresh.NewService(orderSource, store, interval, logger)

	provider, err := llm.NewProvider(config, logger)
	if err != nil {
		orderSource.Close()
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}

	answerService := responder.NewService(provider, logger)

	app := &App{
		Config:         config,
		Logger:         logger,
		OrderSource:    orderSource,
		SnapshotStore:  store,
		RefreshService: refreshService,
		Provider:       provider,
		AnswerService:  answerService,
	}

	app.APIHandler = handlers.NewAPIHandler(logger)
	app.StatusHandler = handlers.NewStatusHandler(store, refreshService, logger)
	app.QueryHandler = handlers.NewQueryHandler(store, answerService, logger)
	app.RefreshHandler = handlers.NewRefreshHandler(refreshService, logger)
	app.StatsHandler = handlers.NewStatsHandler(store, logger)

	return app, nil
}

// Close releases application resources
func (a *App) Close() {
	if a.RefreshService != nil {
		if err := a.RefreshService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop refresh service")
		}
	}
	if a.Provider != nil {
		if err := a.Provider.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM provider")
		}
	}
	if a.OrderSource != nil {
		if err := a.OrderSource.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close order source")
		}
	}
}
