// Package app orchestrates the startup sequence: configuration, logging,
// storage schema, and exchange leverage, in that order. The polling loop is
// only entered once every step has succeeded.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Matincrypto/coinex-trade/internal/infra"
	"github.com/Matincrypto/coinex-trade/internal/infra/coinex"
	"github.com/Matincrypto/coinex-trade/internal/storage"
)

// Bootstrap holds everything the bot needs once startup has completed.
type Bootstrap struct {
	Config   *infra.Config
	Log      zerolog.Logger
	Store    *storage.PositionStore
	Exchange *coinex.Client
}

// NewBootstrap creates an empty Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration, builds the logger, opens the position
// database, and constructs the exchange client. No network call happens yet.
func (b *Bootstrap) Initialize(configPath string) error {
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	b.Config = cfg
	b.Log = infra.NewLogger(cfg.App.LogLevel)

	store, err := storage.NewPositionStore(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("open position store: %w", err)
	}
	b.Store = store

	b.Exchange = coinex.NewClient(cfg.CoinEx.RestURL, cfg.CoinEx.AccessID, cfg.CoinEx.SecretKey, b.Log)

	b.Log.Info().
		Str("app", cfg.App.Name).
		Str("symbol", cfg.Trading.Symbol).
		Dur("poll_interval", cfg.PollInterval()).
		Msg("reversal bot initialized, only this symbol will be traded")
	return nil
}

// PrepareStorage makes sure the active_positions schema exists. Failure here
// is fatal: the bot must not trade without a readable position record.
func (b *Bootstrap) PrepareStorage(ctx context.Context) error {
	if err := b.Store.InitSchema(ctx); err != nil {
		return fmt.Errorf("prepare storage: %w", err)
	}
	b.Log.Info().Str("db_path", b.Config.Storage.DBPath).Msg("position store ready")
	return nil
}

// PrepareExchange applies the configured leverage and margin mode once.
// Failure is fatal: entering the loop with unknown leverage is not safe.
func (b *Bootstrap) PrepareExchange(ctx context.Context) error {
	cfg := b.Config
	err := b.Exchange.AdjustLeverage(ctx, cfg.Trading.Symbol, cfg.Trading.MarginMode, cfg.Trading.Leverage)
	if err != nil {
		return fmt.Errorf("prepare exchange: %w", err)
	}
	b.Log.Info().Int("leverage", cfg.Trading.Leverage).Str("margin_mode", cfg.Trading.MarginMode).
		Msg("exchange leverage configured")
	return nil
}

// Close releases held resources.
func (b *Bootstrap) Close() {
	if b.Store != nil {
		b.Store.Close()
	}
}
