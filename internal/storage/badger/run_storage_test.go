package badger

import (
	"context"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/shiftwatch/internal/models"
)

func newTestStorage(t *testing.T) *RunStorage {
	t.Helper()

	options := badgerhold.DefaultOptions
	options.Dir = t.TempDir()
	options.ValueDir = options.Dir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	db := &BadgerDB{store: store}
	return &RunStorage{db: db, logger: arbor.NewLogger()}
}

func TestRunPersistence(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	started := time.Now().UTC()
	run := &models.RunRecord{
		ID:          "run-1",
		Trigger:     models.RunTriggerManual,
		Status:      models.RunStatusRunning,
		StartedAt:   started,
		WorkerCount: 0,
	}
	if err := storage.SaveRun(ctx, run); err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}

	// Simulate completion and upsert again
	run.Status = models.RunStatusCompleted
	run.WorkerCount = 4
	run.PostCount = 7
	if err := storage.SaveRun(ctx, run); err != nil {
		t.Fatalf("Failed to update run: %v", err)
	}

	got, err := storage.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if got.Status != models.RunStatusCompleted {
		t.Errorf("Expected status %s, got %s", models.RunStatusCompleted, got.Status)
	}
	if got.WorkerCount != 4 {
		t.Errorf("Expected 4 workers, got %d", got.WorkerCount)
	}
}

func TestRunSaveRequiresID(t *testing.T) {
	storage := newTestStorage(t)

	if err := storage.SaveRun(context.Background(), &models.RunRecord{}); err == nil {
		t.Fatal("Expected error saving run without ID")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	base := time.Now().UTC()
	ids := []string{"run-a", "run-b", "run-c"}
	for i, id := range ids {
		run := &models.RunRecord{
			ID:        id,
			Trigger:   models.RunTriggerScheduled,
			Status:    models.RunStatusCompleted,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := storage.SaveRun(ctx, run); err != nil {
			t.Fatalf("Failed to save run %s: %v", id, err)
		}
	}

	runs, err := storage.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-c" || runs[1].ID != "run-b" {
		t.Errorf("Expected newest-first order [run-c run-b], got [%s %s]", runs[0].ID, runs[1].ID)
	}
}

func TestGetRunNotFound(t *testing.T) {
	storage := newTestStorage(t)

	if _, err := storage.GetRun(context.Background(), "missing"); err == nil {
		t.Fatal("Expected error for missing run")
	}
}
