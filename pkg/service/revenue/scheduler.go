package revenue

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartReconciler schedules a periodic full recomputation of every
// company's cached revenue. The returned scheduler should be shut down
// by the caller on exit.
func StartReconciler(svc *Service, interval time.Duration, logger *slog.Logger) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := svc.ReconcileAll(context.Background()); err != nil {
				logger.Error("revenue reconciliation sweep failed", "error", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	sched.Start()
	logger.Info("revenue reconciler started", "interval", interval)
	return sched, nil
}
