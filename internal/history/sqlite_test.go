package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/tbransom/inputcore/internal/infrastructure/database"
	"github.com/tbransom/inputcore/internal/input"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := database.Open(context.Background(), database.Config{
		Path:        filepath.Join(t.TempDir(), "history.db"),
		WALMode:     true,
		BusyTimeout: 1,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewSQLiteRepository(db.DB)
}

func TestRecordAndRecent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	values := []float64{0.1, 0.5, -0.3}
	for i, v := range values {
		sample := input.Sample{Value: v, Timestamp: base.Add(time.Duration(i) * time.Second)}
		if err := repo.Record(ctx, 1, 0, sample); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	// A different channel must not leak into queries.
	if err := repo.Record(ctx, 1, 1, input.Sample{Value: 0.9, Timestamp: base}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	entries, err := repo.Recent(ctx, 1, 0, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Recent() returned %d entries, want 3", len(entries))
	}
	// Newest first.
	if entries[0].Value != -0.3 || entries[2].Value != 0.1 {
		t.Errorf("entries out of order: %+v", entries)
	}
	if !entries[0].Timestamp.Equal(base.Add(2 * time.Second)) {
		t.Errorf("Timestamp = %v, want %v", entries[0].Timestamp, base.Add(2*time.Second))
	}
	if entries[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

func TestRecentLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		sample := input.Sample{Value: float64(i), Timestamp: time.Now().UTC()}
		if err := repo.Record(ctx, 2, 0, sample); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	// Zero limit falls back to the default.
	entries, err := repo.Recent(ctx, 2, 0, 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != defaultLimit {
		t.Errorf("Recent(limit=0) returned %d entries, want %d", len(entries), defaultLimit)
	}

	entries, err = repo.Recent(ctx, 2, 0, 5)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("Recent(limit=5) returned %d entries, want 5", len(entries))
	}
}

func TestRecordValidation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Record(ctx, 0, 0, input.NewSample(0)); err == nil {
		t.Error("Record() with zero device id expected error")
	}
	if err := repo.Record(ctx, 1, -1, input.NewSample(0)); err == nil {
		t.Error("Record() with negative channel expected error")
	}
	if _, err := repo.Recent(ctx, 0, 0, 10); err == nil {
		t.Error("Recent() with zero device id expected error")
	}
}

func TestRecentEmpty(t *testing.T) {
	repo := newTestRepo(t)

	entries, err := repo.Recent(context.Background(), 9, 0, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Recent() on empty table returned %d entries", len(entries))
	}
}
