package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xrpscan/burnwatch/logger"
)

// HandleAll returns a context cancelled on SIGINT or SIGTERM. A second
// signal exits immediately.
func HandleAll(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigs:
			logger.Log.Info().Str("signal", sig.String()).Msg("Shutting down")
			cancel()
		case <-ctx.Done():
			signal.Stop(sigs)
			return
		}
		sig := <-sigs
		logger.Log.Warn().Str("signal", sig.String()).Msg("Forced exit")
		os.Exit(1)
	}()

	return ctx, cancel
}
