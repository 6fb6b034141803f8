package keeper

import (
	"context"
	"errors"
	"time"

	"aumkeeper/internal/adapters"
	"aumkeeper/internal/domain"
	"aumkeeper/internal/metrics"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

const (
	defaultCycle     = 3 * time.Second
	defaultIdleSleep = 500 * time.Millisecond
)

type Submitter interface {
	Submit(ctx context.Context, fee uint64, msg domain.PriceBatchMessage, remaining solana.AccountMetaSlice) (solana.Signature, error)
}

// Pacer drives the read-format-submit cycle. A cycle that produced a
// submission attempt is padded to the full cadence; an empty or failed read
// backs off for the idle interval. No error ever leaves the loop.
type Pacer struct {
	reader    adapters.PriceRepository
	submitter Submitter
	fees      *FeeCell
	remaining solana.AccountMetaSlice
	cycle     time.Duration
	idleSleep time.Duration
	metrics   *metrics.KeeperMetrics
	// -----
	clock  clockwork.Clock
	format func(*domain.PriceSnapshot) (domain.PriceBatchMessage, error)
}

// RunOnce performs a single cycle and returns how long to sleep before the next one.
func (p *Pacer) RunOnce(ctx context.Context) time.Duration {
	execID := uuid.NewString()
	log := logrus.WithField("exec_id", execID)
	start := p.clock.Now()

	snapshot, err := p.reader.GetLatest(ctx)
	if err != nil {
		log.WithError(err).WithFields(stepFields("read", err)).Error("Failed to fetch latest price snapshot")
		p.metrics.IncCycle(metrics.OutcomeReadError)
		return p.idleSleep
	}
	if snapshot == nil {
		log.Info("No price data found in DB")
		p.metrics.IncCycle(metrics.OutcomeNoData)
		return p.idleSleep
	}

	outcome := p.process(ctx, log, snapshot)
	p.metrics.IncCycle(outcome)

	elapsed := p.clock.Since(start)
	p.metrics.ObserveCycle(elapsed.Seconds())
	return remainingSleep(p.cycle, elapsed)
}

func (p *Pacer) process(ctx context.Context, log *logrus.Entry, snapshot *domain.PriceSnapshot) string {
	msg, err := p.format(snapshot)
	if err != nil {
		log.WithError(err).WithFields(stepFields("format", err)).Error("Failed to format oracle prices")
		return metrics.OutcomeFormatError
	}

	fee := p.fees.Load()
	sig, err := p.submitter.Submit(ctx, fee, msg, p.remaining)
	switch {
	case err == nil:
		log.WithFields(logrus.Fields{
			"signature": sig.String(),
			"cu_price":  fee,
		}).Info("Pool AUM update submitted")
		return metrics.OutcomeSubmitted
	case errors.Is(err, domain.ErrTransactionBuildTimeout):
		log.WithError(err).WithField("step", "build").Error("Transaction build timed out")
		return metrics.OutcomeBuildTimeout
	case errors.Is(err, domain.ErrTransactionBuild):
		log.WithError(err).WithField("step", "build").Error("Failed to build transaction")
		return metrics.OutcomeBuildError
	default:
		log.WithError(err).WithField("step", "send").Error("Failed to send transaction")
		return metrics.OutcomeSubmitError
	}
}

// stepFields names the failing step and, for conversion errors, the feed.
func stepFields(step string, err error) logrus.Fields {
	fields := logrus.Fields{"step": step}
	var convErr *domain.PriceConversionError
	if errors.As(err, &convErr) {
		fields["feed"] = convErr.Feed.String()
	}
	return fields
}

// Run loops until ctx is canceled.
func (p *Pacer) Run(ctx context.Context) error {
	for {
		wait := p.RunOnce(ctx)
		if wait <= 0 {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-p.clock.After(wait):
		}
	}
}

// remainingSleep is cycle-elapsed clamped at zero.
func remainingSleep(cycle, elapsed time.Duration) time.Duration {
	if elapsed >= cycle {
		return 0
	}
	return cycle - elapsed
}

func NewPacer(reader adapters.PriceRepository, submitter Submitter, fees *FeeCell, remaining solana.AccountMetaSlice, cycle, idleSleep time.Duration, m *metrics.KeeperMetrics) *Pacer {
	if cycle <= 0 {
		cycle = defaultCycle
	}
	if idleSleep <= 0 {
		idleSleep = defaultIdleSleep
	}
	return &Pacer{
		reader:    reader,
		submitter: submitter,
		fees:      fees,
		remaining: remaining,
		cycle:     cycle,
		idleSleep: idleSleep,
		metrics:   m,
		clock:     clockwork.NewRealClock(),
		format:    FormatPrices,
	}
}
