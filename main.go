package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xrpscan/burnwatch/alerts"
	"github.com/xrpscan/burnwatch/amount"
	"github.com/xrpscan/burnwatch/config"
	"github.com/xrpscan/burnwatch/connections"
	"github.com/xrpscan/burnwatch/engine"
	"github.com/xrpscan/burnwatch/logger"
	"github.com/xrpscan/burnwatch/producers"
	"github.com/xrpscan/burnwatch/routes"
	"github.com/xrpscan/burnwatch/signals"
)

func main() {
	configFile := flag.String("config", ".env", "Environment config file, empty to use the process environment only")
	flag.Parse()

	if *configFile != "" {
		config.EnvLoad(*configFile)
	}
	logger.New()

	cfg, err := engineConfig()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid alert configuration")
	}

	ctx, cancel := signals.HandleAll(context.Background())
	defer cancel()

	dispatcher := alerts.NewDispatcher(config.EnvAlertQueueSize(), alertSinks(ctx)...)
	dispatcher.Start()

	connections.NewXrplClient()
	connections.NewXrplRPCClient()

	fetcher := connections.NewXrplLedgerFetcher(time.Duration(config.EnvFetchTimeoutSeconds()) * time.Second)
	eng, err := engine.New(cfg, fetcher, dispatcher)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create engine")
	}

	go connections.SubscribeStreams()
	go connections.MonitorXRPLConnection(ctx)
	go producers.RunProducers(ctx, eng)

	server := startStatusServer(eng)

	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Error().Err(err).Msg("Engine stopped with error")
	}

	if server != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Warn().Err(err).Msg("Status server shutdown")
		}
		cancelShutdown()
	}
	dispatcher.Close()
	connections.CloseAll()
}

func engineConfig() (engine.Config, error) {
	cfg := engine.DefaultConfig()

	feeThreshold, err := amount.Parse(config.EnvFeeAlertThresholdDrops())
	if err != nil {
		return cfg, fmt.Errorf("FEE_ALERT_THRESHOLD_DROPS: %w", err)
	}
	burnThreshold, err := amount.Parse(config.EnvBurnAlertThresholdDrops())
	if err != nil {
		return cfg, fmt.Errorf("BURN_ALERT_THRESHOLD_DROPS: %w", err)
	}

	cfg.FeeThreshold = feeThreshold
	cfg.BurnThreshold = burnThreshold
	cfg.WindowSize = config.EnvSummaryWindowSize()
	cfg.TxLinkTemplate = config.EnvTxLinkTemplate()
	cfg.FetchMaxAttempts = config.EnvFetchMaxAttempts()
	cfg.QueueSize = config.EnvEventQueueSize()
	return cfg, nil
}

func alertSinks(ctx context.Context) []alerts.Sink {
	sinks := []alerts.Sink{alerts.NewConsoleSink(os.Stdout)}
	if slackSink := connections.NewSlackSink(ctx); slackSink != nil {
		sinks = append(sinks, slackSink)
	}
	if writer := connections.NewKafkaWriter(); writer != nil {
		sinks = append(sinks, alerts.NewKafkaSink(writer, ""))
	}
	return sinks
}

// startStatusServer returns nil when SERVER_PORT is not set.
func startStatusServer(eng *engine.Engine) *echo.Echo {
	port := config.EnvServerPort()
	if port == "" {
		return nil
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	routes.Add(e, eng)

	serverAddress := fmt.Sprintf("%s:%s", config.EnvServerHost(), port)
	go func() {
		logger.Log.Info().Str("address", serverAddress).Msg("Status server listening")
		if err := e.Start(serverAddress); err != nil && err != http.ErrServerClosed {
			logger.Log.Error().Err(err).Msg("Status server stopped")
		}
	}()
	return e
}
