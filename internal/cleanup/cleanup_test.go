package cleanup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
)

type fakePurger struct {
	calls   atomic.Int32
	removed int64
	err     error
}

func (f *fakePurger) PurgeExpired(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	return f.removed, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCleanupManager_RunOnce(t *testing.T) {
	purger := &fakePurger{removed: 3}
	cm := NewCleanupManager(purger, "@hourly", testLogger())

	result := cm.RunOnce(context.Background())
	if !result.Success || result.Removed != 3 {
		t.Errorf("expected successful run removing 3, got %+v", result)
	}

	purger.err = errors.New("database is locked")
	purger.removed = 0
	result = cm.RunOnce(context.Background())
	if result.Success || result.Error != "database is locked" {
		t.Errorf("expected failed run, got %+v", result)
	}

	success, failed, removed := cm.GetSummary()
	if success != 1 || failed != 1 || removed != 3 {
		t.Errorf("unexpected summary: success=%d failed=%d removed=%d", success, failed, removed)
	}

	if len(cm.GetResults()) != 2 {
		t.Errorf("expected 2 results, got %d", len(cm.GetResults()))
	}
}

func TestCleanupManager_HistoryIsBounded(t *testing.T) {
	cm := NewCleanupManager(&fakePurger{removed: 1}, "@hourly", testLogger())

	if _, ok := cm.LastResult(); ok {
		t.Fatal("expected no last result before the first run")
	}

	for i := 0; i < maxResults+10; i++ {
		cm.RunOnce(context.Background())
	}

	if got := len(cm.GetResults()); got != maxResults {
		t.Errorf("expected %d kept results, got %d", maxResults, got)
	}
	success, failed, removed := cm.GetSummary()
	if success != maxResults || failed != 0 || removed != maxResults {
		t.Errorf("unexpected summary: success=%d failed=%d removed=%d", success, failed, removed)
	}

	last, ok := cm.LastResult()
	if !ok || !last.Success || last.RanAt.IsZero() {
		t.Errorf("expected a successful timestamped last result, got %+v", last)
	}
}

func TestCleanupManager_StartRejectsBadSchedule(t *testing.T) {
	cm := NewCleanupManager(&fakePurger{}, "not a schedule", testLogger())
	if err := cm.Start(); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestCleanupManager_StartStop(t *testing.T) {
	purger := &fakePurger{}
	cm := NewCleanupManager(purger, "@every 1h", testLogger())

	if err := cm.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cm.Stop()

	if purger.calls.Load() != 0 {
		t.Errorf("expected no purge before the first tick, got %d", purger.calls.Load())
	}
}
