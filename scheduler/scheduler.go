// Package scheduler runs the background housekeeping of the prescription API:
// catalog statistics, log retention and rate limiter bucket cleanup.
package scheduler

import (
	"fmt"
	"time"

	"github.com/giygas/mediscript-api/interfaces"
	"github.com/giygas/mediscript-api/logging"
	"github.com/giygas/mediscript-api/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

const (
	statsInterval         = time.Hour
	bucketCleanupInterval = 30 * time.Minute
	logCleanupTime        = "03:00"
)

// Scheduler handles periodic jobs using dependency injection.
// logs and buckets are optional.
type Scheduler struct {
	store     interfaces.MedicineStore
	logs      interfaces.LogCleaner
	buckets   interfaces.BucketCleaner
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(store interfaces.MedicineStore, logs interfaces.LogCleaner, buckets interfaces.BucketCleaner) *Scheduler {
	return &Scheduler{
		store:     store,
		logs:      logs,
		buckets:   buckets,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start registers the jobs and runs them asynchronously
func (s *Scheduler) Start() error {
	// Publish catalog stats right away, then hourly
	if _, err := s.scheduler.Every(statsInterval).Do(s.recordCatalogStats); err != nil {
		return fmt.Errorf("failed to schedule catalog stats: %w", err)
	}

	if s.buckets != nil {
		_, err := s.scheduler.Every(bucketCleanupInterval).WaitForSchedule().Do(s.cleanupBuckets)
		if err != nil {
			return fmt.Errorf("failed to schedule rate limiter cleanup: %w", err)
		}
	}

	if s.logs != nil {
		_, err := s.scheduler.Every(1).Days().At(logCleanupTime).Do(s.cleanupLogs)
		if err != nil {
			return fmt.Errorf("failed to schedule log cleanup: %w", err)
		}
	}

	s.scheduler.StartAsync()
	logging.Info("Scheduler started", "jobs", len(s.scheduler.Jobs()))

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) recordCatalogStats() {
	count := s.store.Count()
	metrics.CatalogSize.Set(float64(count))
	logging.Info("Catalog stats", "medicine_count", count)
}

func (s *Scheduler) cleanupBuckets() {
	removed := s.buckets.Cleanup()
	if removed > 0 {
		logging.Debug("Removed idle rate limiter buckets", "count", removed)
	}
}

func (s *Scheduler) cleanupLogs() {
	removed, err := s.logs.CleanupOldLogs()
	if err != nil {
		logging.Error("Log cleanup failed", "error", err)
		return
	}
	if len(removed) > 0 {
		logging.Info("Removed old log files", "count", len(removed), "files", removed)
	}
}
