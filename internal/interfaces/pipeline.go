package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/shiftwatch/internal/models"
)

// PipelineService runs the full scrape-and-reconcile cycle. At most one
// run is active at a time; a trigger while a run is in flight fails
// fast with models.ErrAlreadyRunning and is never queued.
type PipelineService interface {
	// Run executes one pipeline cycle synchronously.
	Run(ctx context.Context, trigger models.RunTrigger) (*models.RunResult, error)

	// LastResult returns the most recent successful result, or nil.
	LastResult() *models.RunResult

	// IsRunning reports whether a run currently holds the guard.
	IsRunning() bool
}

// JobStatus represents the current status of a scheduled job
type JobStatus struct {
	Name        string     `json:"name"`
	Enabled     bool       `json:"enabled"`
	Schedule    string     `json:"schedule"`
	Description string     `json:"description"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	IsRunning   bool       `json:"is_running"`
	LastError   string     `json:"last_error,omitempty"`
}

// SchedulerService manages cron-based scheduling
type SchedulerService interface {
	Start() error
	Stop() error
	IsRunning() bool

	// RegisterJob registers a job with the scheduler
	RegisterJob(name string, schedule string, description string, handler func() error) error

	// TriggerJob manually triggers a registered job
	TriggerJob(name string) error

	// GetJobStatus returns the status of a specific job
	GetJobStatus(name string) (*JobStatus, error)

	// GetAllJobStatuses returns all job statuses
	GetAllJobStatuses() map[string]*JobStatus
}
