// Package scheduler runs the auto-renew job in-process using gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/orris-inc/proxyshop/internal/shared/biztime"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BatchJobFunc adapts a function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) {
	return f(ctx)
}

// SchedulerManager owns the gocron scheduler. Cron expressions are
// evaluated in the business timezone.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterAutoRenewJob runs job on the given cron schedule. Singleton mode
// keeps a slow run from overlapping the next tick.
func (m *SchedulerManager) RegisterAutoRenewJob(schedule string, timeout time.Duration, job BatchJob) error {
	if schedule == "" {
		return fmt.Errorf("auto-renew schedule is empty")
	}

	_, err := m.scheduler.NewJob(
		gocron.CronJob(schedule, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.runAutoRenew(ctx, job)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("renewal", "auto-renew"),
		gocron.WithName("auto-renew"),
	)
	if err != nil {
		return fmt.Errorf("failed to register auto-renew job: %w", err)
	}

	m.logger.Infow("registered auto-renew job",
		"schedule", schedule,
		"timezone", biztime.Location().String(),
	)
	return nil
}

func (m *SchedulerManager) runAutoRenew(ctx context.Context, job BatchJob) {
	m.logger.Debugw("auto-renew task started")

	startTime := biztime.NowUTC()

	processed, err := job.Execute(ctx)
	if err != nil {
		m.logger.Errorw("auto-renew task failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if processed > 0 {
		m.logger.Infow("auto-renew task processed proxies",
			"count", processed,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("auto-renew task found nothing to do",
			"duration", time.Since(startTime),
		)
	}
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
