// Package scheduler runs the periodic maintenance jobs of the server.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// DefaultSweepInterval is how often idle practice sessions are looked for
const DefaultSweepInterval = time.Minute

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	logger    *zap.Logger
}

// New creates a scheduler whose jobs never overlap with themselves
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{scheduler: s, logger: logger}
}

// Every registers job to run every interval. The job returns how many
// items it removed, which is logged at debug level.
func (s *Scheduler) Every(name string, interval time.Duration, job func() int) error {
	_, err := s.scheduler.Every(interval).Tag(name).Do(func() {
		removed := job()
		s.logger.Debug("Scheduled job finished", zap.String("job", name), zap.Int("removed", removed))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	return nil
}

// Start runs the registered jobs in the background
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
	s.logger.Info("Scheduler started", zap.Int("jobs", s.scheduler.Len()))
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
