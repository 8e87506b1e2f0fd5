package models

import "time"

// RunStatus represents the state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunTrigger identifies what started a pipeline run.
type RunTrigger string

const (
	RunTriggerScheduled RunTrigger = "scheduled"
	RunTriggerManual    RunTrigger = "manual"
)

// RunResult is the in-memory outcome of one pipeline run. The last
// successful result is retained for callers; failed runs never replace
// it.
type RunResult struct {
	RunID          string              `json:"run_id"`
	Trigger        RunTrigger          `json:"trigger"`
	StartedAt      time.Time           `json:"started_at"`
	CompletedAt    time.Time           `json:"completed_at"`
	Attendance     []AttendanceRecord  `json:"attendance"`
	Posts          []SocialPost        `json:"posts"`
	Reconciliation *Reconciliation     `json:"reconciliation"`
	MonthlyStats   []MonthlyStat       `json:"monthly_stats"`
}

// RunRecord is the persisted history entry for one run, success or
// failure.
type RunRecord struct {
	ID               string     `json:"id" badgerhold:"key"`
	Trigger          RunTrigger `json:"trigger"`
	Status           RunStatus  `json:"status"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      time.Time  `json:"completed_at"`
	DurationMs       int64      `json:"duration_ms"`
	WorkerCount      int        `json:"worker_count"`
	PostCount        int        `json:"post_count"`
	MatchedPosts     int        `json:"matched_posts"`
	UnmatchedAuthors int        `json:"unmatched_authors"`
	Error            string     `json:"error,omitempty"`
}
