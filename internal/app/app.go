// Package app wires configuration, storage, services and handlers into
// one application instance.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shiftwatch/internal/common"
	"github.com/ternarybob/shiftwatch/internal/handlers"
	"github.com/ternarybob/shiftwatch/internal/interfaces"
	"github.com/ternarybob/shiftwatch/internal/models"
	"github.com/ternarybob/shiftwatch/internal/services/artifacts"
	"github.com/ternarybob/shiftwatch/internal/services/browser"
	"github.com/ternarybob/shiftwatch/internal/services/extract"
	"github.com/ternarybob/shiftwatch/internal/services/pipeline"
	"github.com/ternarybob/shiftwatch/internal/services/reconcile"
	"github.com/ternarybob/shiftwatch/internal/services/schedule"
	"github.com/ternarybob/shiftwatch/internal/services/scheduler"
	badgerstore "github.com/ternarybob/shiftwatch/internal/storage/badger"
)

// Registered scheduler job names.
const (
	JobNameScrape    = "scrape-and-reconcile"
	JobNameStorageGC = "storage-gc"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	DB            *badgerstore.BadgerDB
	RunStorage    interfaces.RunStorage
	ArtifactStore interfaces.ArtifactStore

	RosterSession interfaces.SessionManager
	DiarySession  interfaces.SessionManager

	PipelineService  interfaces.PipelineService
	SchedulerService interfaces.SchedulerService
	Aggregator       *schedule.Aggregator

	scheduleExtractor interfaces.ScheduleExtractor

	// HTTP handlers
	ScrapeHandler    *handlers.ScrapeHandler
	ArtifactHandler  *handlers.ArtifactHandler
	ScheduleHandler  *handlers.ScheduleHandler
	SchedulerHandler *handlers.SchedulerHandler
	RunHandler       *handlers.RunHandler
	SystemHandler    *handlers.SystemHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.initServices()

	if err := app.initScheduler(); err != nil {
		return nil, fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("environment", cfg.Environment).
		Str("timezone", cfg.Scraper.Timezone).
		Msg("Application initialized")

	return app, nil
}

func (a *App) initStorage() error {
	db, err := badgerstore.NewBadgerDB(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return err
	}
	a.DB = db
	a.RunStorage = badgerstore.NewRunStorage(db, a.Logger)
	a.ArtifactStore = artifacts.NewStore(a.Config.Storage.ArtifactsDir, a.Logger)
	return nil
}

func (a *App) initServices() {
	a.RosterSession = browser.NewManager(a.Config.Portals.Roster, a.Config.Scraper, a.Logger)
	a.DiarySession = browser.NewManager(a.Config.Portals.Diary, a.Config.Scraper, a.Logger)

	a.scheduleExtractor = extract.NewScheduleExtractor(a.Logger)
	a.Aggregator = schedule.NewAggregator(a.Logger)

	a.PipelineService = pipeline.NewService(
		a.Config,
		a.Logger,
		a.RosterSession,
		a.DiarySession,
		extract.NewRosterExtractor(a.Logger),
		extract.NewDiaryExtractor(a.Logger),
		extract.NewStatsExtractor(a.Logger),
		reconcile.NewEngine(a.Logger),
		a.ArtifactStore,
		a.RunStorage,
	)
}

func (a *App) initScheduler() error {
	a.SchedulerService = scheduler.NewService(a.Logger, a.Config.Location())

	if err := a.SchedulerService.RegisterJob(
		JobNameStorageGC,
		"30 3 * * *",
		"Badger value-log garbage collection",
		func() error {
			a.DB.RunGC()
			return nil
		},
	); err != nil {
		return err
	}

	if !a.Config.Schedule.Enabled || !a.Config.Scraper.Enabled {
		a.Logger.Info().Msg("Scheduled scraping disabled by configuration")
		return nil
	}

	handler := func() error {
		_, err := a.PipelineService.Run(context.Background(), models.RunTriggerScheduled)
		return err
	}
	if err := a.SchedulerService.RegisterJob(
		JobNameScrape,
		a.Config.Schedule.Cron,
		"Scrape both portals and reconcile roster against diary posts",
		handler,
	); err != nil {
		return err
	}

	return nil
}

func (a *App) initHandlers() {
	a.ScrapeHandler = handlers.NewScrapeHandler(a.PipelineService, a.Logger)
	a.ArtifactHandler = handlers.NewArtifactHandler(a.ArtifactStore, a.Logger)
	a.ScheduleHandler = handlers.NewScheduleHandler(a.aggregateSchedule, a.Logger)
	a.SchedulerHandler = handlers.NewSchedulerHandler(a.SchedulerService)
	a.RunHandler = handlers.NewRunHandler(a.RunStorage, a.Logger)
	a.SystemHandler = handlers.NewSystemHandler(a.Config, a.PipelineService, a.SchedulerService)
}

// Start begins the scheduler. The scrape job is only registered when
// scheduled scraping is enabled; maintenance jobs always run.
func (a *App) Start() error {
	return a.SchedulerService.Start()
}

// aggregateSchedule performs one on-demand forward-window aggregation.
// It runs on its own browser session, independent of the pipeline's,
// and always releases it before returning.
func (a *App) aggregateSchedule(ctx context.Context, days int) ([]models.DailyAttendance, error) {
	if !a.Config.Scraper.Enabled {
		return nil, models.ErrScrapingDisabled
	}

	portal := a.Config.Portals.Roster
	session := browser.NewManager(portal, a.Config.Scraper, a.Logger)
	defer session.Release()

	pager := schedule.NewBrowserPager(
		session,
		a.scheduleExtractor,
		portal.PageURL(portal.SchedulePath),
		extract.NextWeekSelector,
		a.Logger,
	)

	start := time.Now().In(a.Config.Location())
	result, err := a.Aggregator.Aggregate(ctx, pager, start, days)
	if err != nil {
		return nil, err
	}

	if err := a.ArtifactStore.Write("schedule", result); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to persist schedule artifact")
	}

	return result, nil
}

// Close stops the scheduler, releases browser sessions and closes
// storage.
func (a *App) Close() error {
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	if a.RosterSession != nil {
		a.RosterSession.Release()
	}
	if a.DiarySession != nil {
		a.DiarySession.Release()
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close database")
			return err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
