package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/shiftwatch/internal/models"
)

// ArtifactStore persists one JSON document per data source, written
// atomically after each successful run. Reads return the last
// successfully persisted document or models.ErrNoData, and never
// trigger a scrape.
type ArtifactStore interface {
	Write(name string, payload interface{}) error
	Read(name string) (*ArtifactDocument, error)
}

// ArtifactDocument is the persisted envelope readers poll.
type ArtifactDocument struct {
	ScrapedAt time.Time   `json:"scraped_at"`
	Payload   interface{} `json:"payload"`
}

// RunStorage records pipeline run history.
type RunStorage interface {
	SaveRun(ctx context.Context, run *models.RunRecord) error
	GetRun(ctx context.Context, id string) (*models.RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]*models.RunRecord, error)
	Close() error
}
