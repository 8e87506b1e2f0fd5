// Package pipeline orchestrates one full scrape-and-reconcile cycle:
// fetch the roster and diary portals, join the results, persist
// artifacts and record run history.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/shiftwatch/internal/common"
	"github.com/ternarybob/shiftwatch/internal/interfaces"
	"github.com/ternarybob/shiftwatch/internal/models"
	"github.com/ternarybob/shiftwatch/internal/services/reconcile"
)

// Artifact names written after a successful run.
const (
	ArtifactAttendance     = "attendance"
	ArtifactDiary          = "diary"
	ArtifactReconciliation = "reconciliation"
	ArtifactMonthlyStats   = "monthly_stats"
)

// Service runs the pipeline. At most one run is active at a time: the
// host talks to a rate-limited third party, so a trigger during an
// in-flight run is rejected immediately rather than queued.
type Service struct {
	config        *common.Config
	logger        arbor.ILogger
	rosterSession interfaces.SessionManager
	diarySession  interfaces.SessionManager
	roster        interfaces.RosterExtractor
	diary         interfaces.DiaryExtractor
	stats         interfaces.StatsExtractor
	engine        *reconcile.Engine
	artifacts     interfaces.ArtifactStore
	runs          interfaces.RunStorage

	mu         sync.Mutex
	running    bool
	lastResult *models.RunResult
}

// NewService creates the pipeline service.
func NewService(
	config *common.Config,
	logger arbor.ILogger,
	rosterSession interfaces.SessionManager,
	diarySession interfaces.SessionManager,
	roster interfaces.RosterExtractor,
	diary interfaces.DiaryExtractor,
	stats interfaces.StatsExtractor,
	engine *reconcile.Engine,
	artifacts interfaces.ArtifactStore,
	runs interfaces.RunStorage,
) *Service {
	return &Service{
		config:        config,
		logger:        logger,
		rosterSession: rosterSession,
		diarySession:  diarySession,
		roster:        roster,
		diary:         diary,
		stats:         stats,
		engine:        engine,
		artifacts:     artifacts,
		runs:          runs,
	}
}

// IsRunning reports whether a run currently holds the guard.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LastResult returns the most recent successful result, or nil.
func (s *Service) LastResult() *models.RunResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

// Run executes one pipeline cycle synchronously. A second caller while
// a run is in flight gets models.ErrAlreadyRunning without waiting.
func (s *Service) Run(ctx context.Context, trigger models.RunTrigger) (result *models.RunResult, err error) {
	if !s.config.Scraper.Enabled {
		return nil, models.ErrScrapingDisabled
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn().Str("trigger", string(trigger)).Msg("Run rejected: pipeline already running")
		return nil, models.ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	runID := uuid.New().String()
	startedAt := time.Now().UTC()

	s.logger.Info().
		Str("run_id", runID).
		Str("trigger", string(trigger)).
		Msg("Pipeline run started")

	// Cleanup runs on every exit path, including panic: browsers are
	// released so repeated scheduled runs never orphan a process, the
	// run is recorded, and the guard is cleared last.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
			result = nil
		}

		s.rosterSession.Release()
		s.diarySession.Release()
		s.recordRun(runID, trigger, startedAt, result, err)

		s.mu.Lock()
		if result != nil {
			s.lastResult = result
		}
		s.running = false
		s.mu.Unlock()
	}()

	var (
		attendance []models.AttendanceRecord
		posts      []models.SocialPost
	)

	// Roster and diary live on separate portals with separate browser
	// sessions, so they are fetched concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var fetchErr error
		attendance, fetchErr = s.fetchAttendance(gctx)
		return fetchErr
	})
	g.Go(func() error {
		var fetchErr error
		posts, fetchErr = s.fetchPosts(gctx)
		return fetchErr
	})
	if err = g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("run_id", runID).Msg("Pipeline fetch failed")
		return nil, err
	}

	monthlyStats, err := s.fetchMonthlyStats(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("run_id", runID).Msg("Monthly stats fetch failed")
		return nil, err
	}

	today := time.Now().In(s.config.Location())
	reconciliation := s.engine.Reconcile(attendance, posts, today)

	if err = s.persistArtifacts(attendance, posts, reconciliation, monthlyStats); err != nil {
		return nil, err
	}

	result = &models.RunResult{
		RunID:          runID,
		Trigger:        trigger,
		StartedAt:      startedAt,
		CompletedAt:    time.Now().UTC(),
		Attendance:     attendance,
		Posts:          posts,
		Reconciliation: reconciliation,
		MonthlyStats:   monthlyStats,
	}

	s.logger.Info().
		Str("run_id", runID).
		Int("workers", len(attendance)).
		Int("posts", len(posts)).
		Int("unmatched_authors", len(reconciliation.Unmatched)).
		Str("duration", time.Since(startedAt).Round(time.Millisecond).String()).
		Msg("Pipeline run completed")

	return result, nil
}

func (s *Service) fetchAttendance(ctx context.Context) ([]models.AttendanceRecord, error) {
	portal := s.config.Portals.Roster
	html, err := s.rosterSession.FetchHTML(ctx, portal.PageURL(portal.AttendancePath))
	if err != nil {
		return nil, err
	}
	return s.roster.ExtractAttendance(html), nil
}

func (s *Service) fetchPosts(ctx context.Context) ([]models.SocialPost, error) {
	portal := s.config.Portals.Diary
	html, err := s.diarySession.FetchHTML(ctx, portal.PageURL(portal.FeedPath))
	if err != nil {
		return nil, err
	}
	return s.diary.ExtractPosts(html), nil
}

func (s *Service) fetchMonthlyStats(ctx context.Context) ([]models.MonthlyStat, error) {
	portal := s.config.Portals.Roster
	html, err := s.rosterSession.FetchHTML(ctx, portal.PageURL(portal.StatsPath))
	if err != nil {
		return nil, err
	}
	return s.stats.ExtractMonthlyStats(html), nil
}

// persistArtifacts writes all artifacts for a successful run. A failed
// run never reaches here, so the previous good artifacts stay
// authoritative until a run fully succeeds.
func (s *Service) persistArtifacts(
	attendance []models.AttendanceRecord,
	posts []models.SocialPost,
	reconciliation *models.Reconciliation,
	monthlyStats []models.MonthlyStat,
) error {
	writes := []struct {
		name    string
		payload interface{}
	}{
		{ArtifactAttendance, attendance},
		{ArtifactDiary, posts},
		{ArtifactReconciliation, reconciliation},
		{ArtifactMonthlyStats, monthlyStats},
	}
	for _, w := range writes {
		if err := s.artifacts.Write(w.name, w.payload); err != nil {
			return fmt.Errorf("failed to persist %s artifact: %w", w.name, err)
		}
	}
	return nil
}

// recordRun appends the run to history. History failures are logged
// and swallowed: run bookkeeping must never fail a run.
func (s *Service) recordRun(runID string, trigger models.RunTrigger, startedAt time.Time, result *models.RunResult, runErr error) {
	record := &models.RunRecord{
		ID:          runID,
		Trigger:     trigger,
		StartedAt:   startedAt,
		CompletedAt: time.Now().UTC(),
	}
	record.DurationMs = record.CompletedAt.Sub(startedAt).Milliseconds()

	if runErr != nil {
		record.Status = models.RunStatusFailed
		record.Error = runErr.Error()
	} else {
		record.Status = models.RunStatusCompleted
		if result != nil {
			record.WorkerCount = len(result.Attendance)
			record.PostCount = len(result.Posts)
			if result.Reconciliation != nil {
				for _, r := range result.Reconciliation.Results {
					record.MatchedPosts += r.PostCount
				}
				record.UnmatchedAuthors = len(result.Reconciliation.Unmatched)
			}
		}
	}

	if err := s.runs.SaveRun(context.Background(), record); err != nil {
		s.logger.Warn().Err(err).Str("run_id", runID).Msg("Failed to record run history")
	}
}
