package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/driftcheck/driftcheck/pkg/entity"
	"github.com/driftcheck/driftcheck/pkg/report"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleReport() *report.Report {
	rep := report.New()
	rep.RecordPass("artifact")
	rep.RecordFailure("objects/b.json", entity.NewMissingSchemaError("model"))
	rep.Finish([]entity.Kind{"artifact", "model", "secret"})
	return rep
}

func TestNewStoreRequiresPath(t *testing.T) {
	if _, err := NewStore(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rep := sampleReport()
	if err := store.Save(ctx, rep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := store.Get(ctx, rep.RunID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.RunID != rep.RunID {
		t.Errorf("expected run %s, got %s", rep.RunID, loaded.RunID)
	}
	if !loaded.Equivalent(rep) {
		t.Error("stored report must round-trip equivalently")
	}
	if len(loaded.Untested) != 1 || loaded.Untested[0] != "secret" {
		t.Errorf("untested kinds must survive storage, got %v", loaded.Untested)
	}
}

func TestGetUnknownRun(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(context.Background(), "no-such-run"); err == nil {
		t.Error("expected error for unknown run ID")
	}
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := sampleReport()
	second := sampleReport()
	second.StartedAt = second.StartedAt.Add(1)

	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	runs, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != second.RunID {
		t.Errorf("expected newest run first, got %s", runs[0].RunID)
	}
	if runs[0].Total != 2 || runs[0].Passed != 1 || runs[0].Failed != 1 {
		t.Errorf("unexpected summary: %+v", runs[0])
	}
}

func TestListLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rep := sampleReport()
		rep.StartedAt = rep.StartedAt.Add(1)
		if err := store.Save(ctx, rep); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	runs, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
}
