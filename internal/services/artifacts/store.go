// Package artifacts persists one JSON document per data source for the
// dashboard collaborators to poll.
package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shiftwatch/internal/interfaces"
	"github.com/ternarybob/shiftwatch/internal/models"
)

// Store writes artifact documents atomically: the directory is
// ensured, the document is written to a temp file, then renamed into
// place. A failed run therefore never clobbers the last good artifact.
type Store struct {
	dir    string
	logger arbor.ILogger
}

// NewStore creates an artifact store rooted at dir
func NewStore(dir string, logger arbor.ILogger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Write persists payload under name (e.g. "attendance") wrapped in the
// scraped-at envelope.
func (s *Store) Write(name string, payload interface{}) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure artifacts directory: %w", err)
	}

	doc := interfaces.ArtifactDocument{
		ScrapedAt: time.Now().UTC(),
		Payload:   payload,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact %s: %w", name, err)
	}

	final := s.path(name)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", name, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to publish artifact %s: %w", name, err)
	}

	s.logger.Debug().
		Str("artifact", name).
		Int("bytes", len(data)).
		Msg("Artifact persisted")

	return nil
}

// Read returns the last successfully persisted document for name, or
// models.ErrNoData when no run has persisted one yet.
func (s *Store) Read(name string) (*interfaces.ArtifactDocument, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, models.ErrNoData
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", name, err)
	}

	var doc interfaces.ArtifactDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", name, err)
	}
	return &doc, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}
