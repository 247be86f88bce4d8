package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-pairing-api/pkg/jobs"
)

// JobScheduleChanged is enqueued whenever a user's schedule is written or deleted.
const JobScheduleChanged = "schedule.changed"

type jobEnqueuer interface {
	Enqueue(jobType string, payload interface{}) (string, error)
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// ScheduleEvents publishes schedule mutations to the background queue.
type ScheduleEvents struct {
	queue  jobEnqueuer
	logger *zap.Logger
}

// NewScheduleEvents constructs the publisher. A nil queue turns it into a no-op.
func NewScheduleEvents(queue jobEnqueuer, logger *zap.Logger) *ScheduleEvents {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleEvents{queue: queue, logger: logger}
}

// ScheduleChanged enqueues one job per user. Enqueue failures are logged only.
func (e *ScheduleEvents) ScheduleChanged(ctx context.Context, userIDs ...string) {
	if e == nil || e.queue == nil {
		return
	}
	for _, userID := range userIDs {
		if _, err := e.queue.Enqueue(JobScheduleChanged, userID); err != nil {
			e.logger.Warn("failed to enqueue schedule change", zap.String("user_id", userID), zap.Error(err))
		}
	}
}

// ScheduleChangedHandler drops cached availability results involving the changed user.
func ScheduleChangedHandler(cache cacheInvalidator) jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		userID, ok := job.Payload.(string)
		if !ok || userID == "" {
			return fmt.Errorf("schedule change job %s: unexpected payload %v", job.ID, job.Payload)
		}
		for _, pattern := range AvailabilityInvalidationPatterns(userID) {
			if err := cache.Invalidate(ctx, pattern); err != nil {
				return err
			}
		}
		return nil
	}
}
