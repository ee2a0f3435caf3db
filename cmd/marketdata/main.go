package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/quorumfeed/marketdata/internal/app"
	"github.com/quorumfeed/marketdata/internal/config"
	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/facade"
	"github.com/quorumfeed/marketdata/internal/httpmetrics"
	"github.com/quorumfeed/marketdata/internal/logging"
)

const appName = "marketdata"

func main() {
	var configPath, logLevel string

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Unified cryptocurrency market data access layer",
		Long:    "marketdata fetches and streams OHLCV, order books, trades, and derivative metrics across exchange venues behind one normalized API.",
		Version: "v0.1.0",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = logging.New(logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults applied when omitted)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")

	rootCmd.AddCommand(newFetchCmd(&configPath))
	rootCmd.AddCommand(newStreamCmd(&configPath))
	rootCmd.AddCommand(newCapabilitiesCmd(&configPath))
	rootCmd.AddCommand(newServeMetricsCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func buildApp(configPath string) (*app.App, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	a, err := app.New(cfg, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("building app: %w", err)
	}
	a.Start()
	return a, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newFetchCmd(configPath *string) *cobra.Command {
	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "One-shot REST fetches",
	}

	var exchange, symbol, timeframe string
	var limit int

	ohlcvCmd := &cobra.Command{
		Use:   "ohlcv",
		Short: "Fetch a single OHLCV bar window",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(context.Background(), a.Config.RestTimeout()*4)
			defer cancel()

			opts := facadeOHLCVOptions(exchange, limit)
			bar, err := a.Facade.FetchOHLCV(ctx, symbol, core.Timeframe(timeframe), opts)
			if err != nil {
				return fmt.Errorf("fetch_ohlcv: %w", err)
			}
			return printJSON(bar)
		},
	}
	ohlcvCmd.Flags().StringVar(&exchange, "exchange", "binance", "exchange to query")
	ohlcvCmd.Flags().StringVar(&symbol, "symbol", "BTC/USDT", "universal-resolvable symbol")
	ohlcvCmd.Flags().StringVar(&timeframe, "timeframe", string(core.TF1h), "candle timeframe")
	ohlcvCmd.Flags().IntVar(&limit, "limit", 100, "maximum number of bars")

	var depth int
	orderbookCmd := &cobra.Command{
		Use:   "orderbook",
		Short: "Fetch a single order book snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(context.Background(), a.Config.RestTimeout()*2)
			defer cancel()

			book, err := a.Facade.FetchOrderBook(ctx, symbol, depth, facade.FetchOptions{Exchange: exchange})
			if err != nil {
				return fmt.Errorf("fetch_order_book: %w", err)
			}
			return printJSON(book)
		},
	}
	orderbookCmd.Flags().StringVar(&exchange, "exchange", "binance", "exchange to query")
	orderbookCmd.Flags().StringVar(&symbol, "symbol", "BTC/USDT", "universal-resolvable symbol")
	orderbookCmd.Flags().IntVar(&depth, "depth", 100, "order book depth")

	tradesCmd := &cobra.Command{
		Use:   "trades",
		Short: "Fetch recent trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(context.Background(), a.Config.RestTimeout()*2)
			defer cancel()

			trades, err := a.Facade.FetchRecentTrades(ctx, symbol, limit, facade.FetchOptions{Exchange: exchange})
			if err != nil {
				return fmt.Errorf("fetch_recent_trades: %w", err)
			}
			return printJSON(trades)
		},
	}
	tradesCmd.Flags().StringVar(&exchange, "exchange", "binance", "exchange to query")
	tradesCmd.Flags().StringVar(&symbol, "symbol", "BTC/USDT", "universal-resolvable symbol")
	tradesCmd.Flags().IntVar(&limit, "limit", 100, "maximum number of trades")

	fetchCmd.AddCommand(ohlcvCmd, orderbookCmd, tradesCmd)
	return fetchCmd
}

func newStreamCmd(configPath *string) *cobra.Command {
	streamCmd := &cobra.Command{
		Use:   "stream",
		Short: "Long-lived WS streams, printed as newline-delimited JSON",
	}

	var exchange, symbol, timeframe string

	ohlcvCmd := &cobra.Command{
		Use:   "ohlcv",
		Short: "Stream OHLCV bars as they close",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			results, err := a.Facade.StreamOHLCV(ctx, symbol, core.Timeframe(timeframe), facade.StreamOptions{Exchange: exchange, OnlyClosed: true})
			if err != nil {
				return fmt.Errorf("stream_ohlcv: %w", err)
			}
			for r := range results {
				if r.Err != nil {
					log.Error().Err(r.Err).Msg("stream item error")
					continue
				}
				if err := printJSON(r.Value); err != nil {
					return err
				}
			}
			return nil
		},
	}
	ohlcvCmd.Flags().StringVar(&exchange, "exchange", "binance", "exchange to stream from")
	ohlcvCmd.Flags().StringVar(&symbol, "symbol", "BTC/USDT", "universal-resolvable symbol")
	ohlcvCmd.Flags().StringVar(&timeframe, "timeframe", string(core.TF1m), "candle timeframe")

	tradesCmd := &cobra.Command{
		Use:   "trades",
		Short: "Stream trade prints",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			results, err := a.Facade.StreamTrades(ctx, symbol, facade.StreamOptions{Exchange: exchange})
			if err != nil {
				return fmt.Errorf("stream_trades: %w", err)
			}
			for r := range results {
				if r.Err != nil {
					log.Error().Err(r.Err).Msg("stream item error")
					continue
				}
				if err := printJSON(r.Value); err != nil {
					return err
				}
			}
			return nil
		},
	}
	tradesCmd.Flags().StringVar(&exchange, "exchange", "binance", "exchange to stream from")
	tradesCmd.Flags().StringVar(&symbol, "symbol", "BTC/USDT", "universal-resolvable symbol")

	streamCmd.AddCommand(ohlcvCmd, tradesCmd)
	return streamCmd
}

func newCapabilitiesCmd(configPath *string) *cobra.Command {
	var exchange string
	cmd := &cobra.Command{
		Use:   "capabilities",
		Short: "Describe what an exchange supports across features and transports",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			return printJSON(a.Capability.DescribeExchange(exchange))
		},
	}
	cmd.Flags().StringVar(&exchange, "exchange", "binance", "exchange to describe")
	return cmd
}

func facadeOHLCVOptions(exchange string, limit int) facade.OHLCVOptions {
	return facade.OHLCVOptions{Exchange: exchange, Limit: &limit}
}

func newServeMetricsCmd(configPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Build the app and serve its Prometheus metrics over HTTP until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := httpmetrics.NewServer(addr, a.Metrics)
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			log.Info().Str("addr", addr).Msg("serving metrics")
			select {
			case <-ctx.Done():
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				return srv.Shutdown(shutdownCtx)
			case err := <-errCh:
				return err
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":9090", "address to serve /metrics and /healthz on")
	return cmd
}
