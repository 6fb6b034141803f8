package keeper

import (
	"context"
	"sync"
	"time"

	"aumkeeper/internal/adapters"
	"aumkeeper/internal/metrics"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

const (
	defaultFeeRefreshInterval = 5 * time.Second
	defaultFeePercentile      = 2500 // 25th, basis points
)

// FeeEstimator refreshes a FeeCell from the network on a fixed interval.
// It owns no state besides the scheduler, so it can be shut down and started
// again at any time without losing the current estimate.
type FeeEstimator struct {
	sampler    adapters.FeeSampler
	cell       *FeeCell
	percentile uint64
	interval   time.Duration
	metrics    *metrics.KeeperMetrics
	clock      clockwork.Clock
	// -----
	mu        sync.Mutex
	sched     gocron.Scheduler
	stopWatch func() bool
}

// Refresh samples the fee once. On failure the previous estimate is kept.
func (e *FeeEstimator) Refresh(ctx context.Context) {
	fee, err := e.sampler.RecentPriorityFee(ctx, e.percentile)
	if err != nil {
		e.metrics.IncFeeRefreshError()
		logrus.WithError(err).Debug("Priority fee refresh failed, keeping previous estimate")
		return
	}
	e.cell.Store(fee)
	e.metrics.SetPriorityFee(fee)
	logrus.Debugf("Updated priority fee (percentile %d) to %d µLamports / cu", e.percentile, fee)
}

func (e *FeeEstimator) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sched != nil {
		return nil
	}

	scheduler, err := gocron.NewScheduler(gocron.WithClock(e.clock))
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(e.interval),
		gocron.NewTask(e.Refresh),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	scheduler.Start()
	e.sched = scheduler

	// Stop this scheduler, and only this one, when the provided context is canceled.
	e.stopWatch = context.AfterFunc(ctx, func() {
		if sdErr := e.shutdownScheduler(scheduler); sdErr != nil {
			logrus.Errorf("Fee estimator shutdown error: %v", sdErr)
		}
	})
	return nil
}

func (e *FeeEstimator) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shutdownLocked()
}

// shutdownScheduler is a no-op once s has been replaced by a restart.
func (e *FeeEstimator) shutdownScheduler(s gocron.Scheduler) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sched != s {
		return nil
	}
	return e.shutdownLocked()
}

func (e *FeeEstimator) shutdownLocked() error {
	if e.sched == nil {
		return nil
	}
	if e.stopWatch != nil {
		e.stopWatch()
		e.stopWatch = nil
	}
	err := e.sched.Shutdown()
	e.sched = nil
	return err
}

// Restart aborts the running job and spawns a fresh one. The FeeCell is untouched.
func (e *FeeEstimator) Restart(ctx context.Context) error {
	if err := e.Shutdown(); err != nil {
		logrus.WithError(err).Warn("Fee estimator shutdown before restart failed")
	}
	return e.Start(ctx)
}

func (e *FeeEstimator) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sched != nil
}

func NewFeeEstimator(sampler adapters.FeeSampler, cell *FeeCell, percentile uint64, interval time.Duration, m *metrics.KeeperMetrics) *FeeEstimator {
	if interval <= 0 {
		interval = defaultFeeRefreshInterval
	}
	if percentile == 0 {
		percentile = defaultFeePercentile
	}
	return &FeeEstimator{
		sampler:    sampler,
		cell:       cell,
		percentile: percentile,
		interval:   interval,
		metrics:    m,
		clock:      clockwork.NewRealClock(),
	}
}
