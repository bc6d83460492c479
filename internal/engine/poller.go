package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Matincrypto/coinex-trade/internal/domain"
	"github.com/Matincrypto/coinex-trade/internal/metrics"
)

// SignalFetcher hands out at most one signal per call.
type SignalFetcher interface {
	Fetch(ctx context.Context) (*domain.Signal, error)
}

// Poller is the single-threaded polling driver: fetch one signal, process it
// synchronously, sleep, repeat. The next fetch never starts before the
// previous signal has fully settled.
type Poller struct {
	source   SignalFetcher
	reverser *Reverser
	interval time.Duration
	log      zerolog.Logger
}

// NewPoller builds the driver around a fetcher and the reversal engine.
func NewPoller(source SignalFetcher, reverser *Reverser, interval time.Duration, log zerolog.Logger) *Poller {
	return &Poller{
		source:   source,
		reverser: reverser,
		interval: interval,
		log:      log,
	}
}

// Run loops until ctx is cancelled. A cycle that blows up unexpectedly is
// caught here, logged, and answered with a doubled sleep; the loop itself
// never dies from a single bad cycle.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info().Dur("interval", p.interval).Msg("polling loop started")

	for {
		sleep := p.cycle(ctx)

		select {
		case <-ctx.Done():
			p.log.Info().Msg("polling loop stopped")
			return
		case <-time.After(sleep):
		}
	}
}

// cycle runs one fetch-and-process step and returns how long to sleep
// before the next one.
func (p *Poller) cycle(ctx context.Context) (sleep time.Duration) {
	sleep = p.interval
	defer func() {
		if rec := recover(); rec != nil {
			p.log.Error().Interface("panic", rec).Msg("unexpected failure in polling cycle, backing off")
			sleep = 2 * p.interval
		}
	}()

	sig, err := p.source.Fetch(ctx)
	if err != nil {
		metrics.SignalPollsTotal.WithLabelValues("error").Inc()
		p.log.Warn().Err(err).Msg("signal fetch failed, skipping cycle")
		return sleep
	}
	if sig == nil {
		metrics.SignalPollsTotal.WithLabelValues("empty").Inc()
		return sleep
	}
	metrics.SignalPollsTotal.WithLabelValues("ok").Inc()

	if _, err := p.reverser.ProcessSignal(ctx, *sig); err != nil {
		p.log.Error().Err(err).Str("signal_id", sig.SignalID).Msg("signal processing failed")
	}
	return sleep
}
