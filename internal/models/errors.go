package models

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning is returned when a pipeline run is triggered while
	// another run holds the single-flight guard.
	ErrAlreadyRunning = errors.New("pipeline run already in progress")

	// ErrNoData is returned when an artifact has not been persisted yet.
	ErrNoData = errors.New("no data persisted yet")

	// ErrScrapingDisabled is returned on deployments where browser
	// automation is not available.
	ErrScrapingDisabled = errors.New("scraping not supported in this deployment")
)

// ConfigurationError indicates a required configuration value is missing.
// Raised during validation, before any network activity.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Field)
}

// AuthenticationError indicates a portal login was submitted but the
// post-submit URL still carried the login marker.
type AuthenticationError struct {
	Portal string
	URL    string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed for portal %s (still on login page: %s)", e.Portal, e.URL)
}

// ScrapeError wraps a navigation or extraction failure. Fatal for the
// current run only.
type ScrapeError struct {
	Portal string
	Op     string
	Err    error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape failed on portal %s during %s: %v", e.Portal, e.Op, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}
