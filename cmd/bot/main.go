// Binary bot runs the CoinEx signal-reversal position manager: it polls the
// signal API on a fixed interval and keeps a single futures position per the
// last applied signal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Matincrypto/coinex-trade/internal/app"
	"github.com/Matincrypto/coinex-trade/internal/engine"
	"github.com/Matincrypto/coinex-trade/internal/infra"
	"github.com/Matincrypto/coinex-trade/internal/metrics"
)

// Startup failures abort before the polling loop with distinct codes so an
// operator can tell a broken database from a rejected leverage call.
const (
	exitConfig   = 1
	exitStorage  = 2
	exitExchange = 3
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		os.Exit(exitConfig)
	}
	defer bootstrap.Close()

	log := bootstrap.Log
	cfg := bootstrap.Config

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.PrepareStorage(ctx); err != nil {
		log.Error().Err(err).Msg("database preparation failed, not starting")
		os.Exit(exitStorage)
	}
	if err := bootstrap.PrepareExchange(ctx); err != nil {
		log.Error().Err(err).Msg("leverage setup failed, not starting")
		os.Exit(exitExchange)
	}

	if srv := metrics.Serve(cfg.App.MetricsAddr); srv != nil {
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
		defer srv.Close()
	}

	reverser := engine.NewReverser(
		bootstrap.Exchange,
		bootstrap.Store,
		cfg.Trading.Symbol,
		cfg.Trading.NotionalUSDT,
		log,
	)
	source := infra.NewSignalSource(cfg.Signal.URL, cfg.SignalTimeout())
	poller := engine.NewPoller(source, reverser, cfg.PollInterval(), log)

	poller.Run(ctx)

	log.Info().Msg("shutdown complete")
}
