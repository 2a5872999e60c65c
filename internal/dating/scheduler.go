package dating

import (
	"context"
	"log"
	"time"
)

type Scheduler struct {
	service   Service
	resetHour int
}

func NewScheduler(service Service, resetHour int) *Scheduler {
	return &Scheduler{service: service, resetHour: resetHour}
}

func (s *Scheduler) Start(ctx context.Context) {
	// Daily quota reset
	go s.runDaily(ctx, s.resetHour, 0, s.service.ResetDailyQuotas)
}

func (s *Scheduler) runDaily(ctx context.Context, hour, minute int, task func(context.Context) error) {
	for {
		now := time.Now()
		timer := time.NewTimer(nextRun(now, hour, minute).Sub(now))

		select {
		case <-timer.C:
			if err := task(ctx); err != nil {
				log.Printf("[scheduler] scheduled task failed: %v", err)
			}
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// nextRun returns the next hour:minute strictly after now, in now's location
func nextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
