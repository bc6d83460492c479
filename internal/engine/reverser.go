// Package engine holds the signal-interpretation and position-reversal state
// machine. One signal at a time is checked against the persisted position and
// translated into zero, one, or two exchange order legs.
package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Matincrypto/coinex-trade/internal/domain"
	"github.com/Matincrypto/coinex-trade/internal/infra/coinex"
	"github.com/Matincrypto/coinex-trade/internal/metrics"
)

// Gateway is the slice of the exchange client the engine drives.
type Gateway interface {
	PlaceLimitOrder(ctx context.Context, market string, side domain.OrderSide, amount, price string) (*coinex.OrderResult, error)
	CloseLimitOrder(ctx context.Context, market string, sideToClose domain.PositionSide, amount, price string) (*coinex.OrderResult, error)
}

// PositionStore is the durable per-symbol position record the engine trusts.
type PositionStore interface {
	Get(ctx context.Context, symbol string) (*domain.Position, error)
	Upsert(ctx context.Context, pos domain.Position) error
}

// Outcome classifies how a signal was handled.
type Outcome string

const (
	OutcomeIgnoredSymbol Outcome = "ignored_symbol"
	OutcomeDuplicate     Outcome = "duplicate"
	OutcomeSameDirection Outcome = "same_direction"
	OutcomeInvalid       Outcome = "invalid"
	OutcomeOpened        Outcome = "opened"
	OutcomeReversed      Outcome = "reversed"
	OutcomeFailed        Outcome = "failed"
)

// Reverser applies one signal at a time to the single logical position of
// the configured symbol.
type Reverser struct {
	gateway  Gateway
	store    PositionStore
	symbol   string
	notional float64
	log      zerolog.Logger
}

// NewReverser wires the engine to its collaborators. symbol is the only
// instrument the engine will act on; notional is the fixed quote-currency
// value used to size every order.
func NewReverser(gateway Gateway, store PositionStore, symbol string, notional float64, log zerolog.Logger) *Reverser {
	return &Reverser{
		gateway:  gateway,
		store:    store,
		symbol:   symbol,
		notional: notional,
		log:      log,
	}
}

// ProcessSignal runs the strict filter, idempotency, validation, sizing,
// dispatch, persist sequence for one signal. The returned error marks a
// cycle that could not complete (store unreadable or an order leg refused);
// every other path resolves to a terminal outcome with no retry.
func (r *Reverser) ProcessSignal(ctx context.Context, sig domain.Signal) (Outcome, error) {
	if sig.Symbol != r.symbol {
		r.log.Trace().Str("symbol", sig.Symbol).Msg("signal for other symbol, ignored")
		return r.done(OutcomeIgnoredSymbol), nil
	}

	current, err := r.store.Get(ctx, r.symbol)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("get").Inc()
		return r.done(OutcomeFailed), fmt.Errorf("cannot determine current position: %w", err)
	}

	// Replay protection: signal ids are unique per logical event, so seeing
	// the stored id again is always safe to drop.
	if current != nil && current.LastSignalID == sig.SignalID {
		r.log.Debug().Str("signal_id", sig.SignalID).Msg("duplicate signal, ignored")
		return r.done(OutcomeDuplicate), nil
	}

	r.log.Info().
		Str("signal_id", sig.SignalID).
		Str("side", sig.SignalSide).
		Str("entry_price", sig.EntryPrice.String()).
		Msg("new signal received")

	desired, err := domain.SideFromDirection(sig.SignalSide)
	if err != nil {
		r.log.Error().Err(err).Str("signal_id", sig.SignalID).Msg("invalid signal direction, discarded")
		return r.done(OutcomeInvalid), nil
	}
	if !sig.HasValidPrice() {
		r.log.Error().Str("signal_id", sig.SignalID).Str("entry_price", sig.EntryPrice.String()).
			Msg("invalid entry price, signal discarded")
		return r.done(OutcomeInvalid), nil
	}

	amount, err := domain.SizeOrder(r.notional, sig.EntryPrice)
	if err != nil {
		r.log.Error().Err(err).Str("signal_id", sig.SignalID).Msg("order sizing failed, signal discarded")
		return r.done(OutcomeInvalid), nil
	}
	limitPrice := sig.LimitPrice()

	switch {
	case current == nil:
		return r.openFresh(ctx, sig, desired, amount, limitPrice)
	case current.Side == desired:
		r.log.Info().Str("side", string(desired)).Msg("signal matches current position side, ignored")
		return r.done(OutcomeSameDirection), nil
	default:
		return r.reverse(ctx, sig, current, desired, amount, limitPrice)
	}
}

// openFresh opens a position where none is tracked.
func (r *Reverser) openFresh(ctx context.Context, sig domain.Signal, desired domain.PositionSide, amount, limitPrice string) (Outcome, error) {
	r.log.Info().Str("side", string(desired)).Str("amount", amount).Str("price", limitPrice).
		Msg("no tracked position, opening")

	if err := r.placeLeg(ctx, "open", desired.OpenSide(), amount, limitPrice); err != nil {
		return r.done(OutcomeFailed), fmt.Errorf("open leg: %w", err)
	}

	r.persist(ctx, sig, desired, amount)
	return r.done(OutcomeOpened), nil
}

// reverse closes the tracked position and opens the opposite side. Both legs
// are priced at the new signal's price. The close leg uses the stored
// amount; the open leg uses the freshly sized amount.
func (r *Reverser) reverse(ctx context.Context, sig domain.Signal, current *domain.Position, desired domain.PositionSide, amount, limitPrice string) (Outcome, error) {
	r.log.Info().
		Str("current_side", string(current.Side)).
		Str("new_side", string(desired)).
		Msg("reverse signal, closing then reopening")

	if _, err := r.gateway.CloseLimitOrder(ctx, r.symbol, current.Side, current.Amount, limitPrice); err != nil {
		metrics.OrderFailuresTotal.WithLabelValues("close").Inc()
		// The stale record stays authoritative on purpose: believing the new
		// side while the exchange may still hold the old one is worse.
		r.log.Error().Err(err).Msg("close leg failed, reversal aborted")
		return r.done(OutcomeFailed), fmt.Errorf("close leg: %w", err)
	}
	metrics.OrdersTotal.WithLabelValues(string(current.Side.CloseSide()), "close").Inc()

	if err := r.placeLeg(ctx, "open", desired.OpenSide(), amount, limitPrice); err != nil {
		// Known asymmetry: the record still shows the old side while the
		// exchange is flat. The next signal for the same desired side will
		// attempt the reversal again.
		return r.done(OutcomeFailed), fmt.Errorf("reversal open leg: %w", err)
	}

	r.persist(ctx, sig, desired, amount)
	return r.done(OutcomeReversed), nil
}

// placeLeg submits one order leg and records its metrics.
func (r *Reverser) placeLeg(ctx context.Context, leg string, side domain.OrderSide, amount, limitPrice string) error {
	if _, err := r.gateway.PlaceLimitOrder(ctx, r.symbol, side, amount, limitPrice); err != nil {
		metrics.OrderFailuresTotal.WithLabelValues(leg).Inc()
		r.log.Error().Err(err).Str("leg", leg).Str("side", string(side)).Msg("order leg failed")
		return err
	}
	metrics.OrdersTotal.WithLabelValues(string(side), leg).Inc()
	return nil
}

// persist upserts the position record after a successful terminal leg. A
// failed write is logged and otherwise swallowed; local state may now lag
// the exchange until the next successful signal.
func (r *Reverser) persist(ctx context.Context, sig domain.Signal, side domain.PositionSide, amount string) {
	pos := domain.Position{
		Symbol:       r.symbol,
		Side:         side,
		EntryPrice:   sig.EntryPrice,
		Amount:       amount,
		LastSignalID: sig.SignalID,
	}
	if err := r.store.Upsert(ctx, pos); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("upsert").Inc()
		r.log.Error().Err(err).Msg("position upsert failed, local state is stale")
		return
	}
	r.log.Info().Str("side", string(side)).Str("amount", amount).Msg("position record updated")
}

func (r *Reverser) done(outcome Outcome) Outcome {
	metrics.SignalsTotal.WithLabelValues(string(outcome)).Inc()
	return outcome
}
