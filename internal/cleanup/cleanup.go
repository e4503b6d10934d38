package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Purger removes expired remembered values
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// maxResults bounds the run history kept for status reporting
const maxResults = 24

// CleanupResult represents the result of a cleanup run
type CleanupResult struct {
	Step     string        `json:"step"`
	RanAt    time.Time     `json:"ran_at"`
	Success  bool          `json:"success"`
	Removed  int64         `json:"removed"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// CleanupManager purges expired remember-me data on a cron schedule
type CleanupManager struct {
	purger   Purger
	schedule string
	timeout  time.Duration
	logger   *slog.Logger
	cron     *cron.Cron

	mu      sync.Mutex
	results []CleanupResult
}

// NewCleanupManager creates a new cleanup manager. schedule accepts standard
// five-field cron specs and descriptors such as "@hourly".
func NewCleanupManager(purger Purger, schedule string, logger *slog.Logger) *CleanupManager {
	return &CleanupManager{
		purger:   purger,
		schedule: schedule,
		timeout:  time.Minute,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start registers the purge job and starts the scheduler
func (cm *CleanupManager) Start() error {
	if _, err := cm.cron.AddFunc(cm.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cm.timeout)
		defer cancel()
		cm.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", cm.schedule, err)
	}

	cm.cron.Start()
	cm.logger.Info("remember-me cleanup scheduled", "schedule", cm.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running purge to finish
func (cm *CleanupManager) Stop() {
	<-cm.cron.Stop().Done()
	cm.logger.Info("remember-me cleanup stopped")
}

// RunOnce purges expired values immediately
func (cm *CleanupManager) RunOnce(ctx context.Context) CleanupResult {
	start := time.Now()
	removed, err := cm.purger.PurgeExpired(ctx)

	result := CleanupResult{
		Step:     "Purge expired remembered values",
		RanAt:    start.UTC(),
		Success:  err == nil,
		Removed:  removed,
		Duration: time.Since(start),
	}
	if err != nil {
		result.Error = err.Error()
		cm.logger.ErrorContext(ctx, "Cleanup step failed",
			"step", result.Step,
			"error", err,
			"duration", result.Duration,
		)
	} else {
		cm.logger.InfoContext(ctx, "Cleanup completed",
			"step", result.Step,
			"removed", removed,
			"duration", result.Duration,
		)
	}

	cm.mu.Lock()
	cm.results = append(cm.results, result)
	if len(cm.results) > maxResults {
		cm.results = append(cm.results[:0:0], cm.results[len(cm.results)-maxResults:]...)
	}
	cm.mu.Unlock()

	return result
}

// GetResults returns the most recent runs, oldest first
func (cm *CleanupManager) GetResults() []CleanupResult {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	out := make([]CleanupResult, len(cm.results))
	copy(out, cm.results)
	return out
}

// LastResult returns the most recent run; false before the first one
func (cm *CleanupManager) LastResult() (CleanupResult, bool) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if len(cm.results) == 0 {
		return CleanupResult{}, false
	}
	return cm.results[len(cm.results)-1], true
}

// GetSummary returns successful runs, failed runs and rows removed across the kept history
func (cm *CleanupManager) GetSummary() (int, int, int64) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	successCount := 0
	var removed int64
	for _, result := range cm.results {
		if result.Success {
			successCount++
			removed += result.Removed
		}
	}
	return successCount, len(cm.results) - successCount, removed
}
