package connections

import (
	"context"
	"sync"
	"time"

	"github.com/xrpscan/burnwatch/logger"
)

// closeWithTimeout executes a close function with a 3-second timeout
func closeWithTimeout(name string, closeFn func() error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- closeFn()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Log.Warn().Err(err).Str("connection", name).Msg("Error closing connection")
		} else {
			logger.Log.Info().Str("connection", name).Msg("Connection closed")
		}
	case <-ctx.Done():
		logger.Log.Warn().Str("connection", name).Msg("Timeout closing connection after 3 seconds")
	}
}

func CloseXrplClient() {
	closeWithTimeout("XRPL client", func() error {
		if client := XrplClient; client != nil {
			return client.Close()
		}
		return nil
	})
}

func CloseXrplRPCClient() {
	closeWithTimeout("XRPL RPC client", func() error {
		if client := XrplRPCClient; client != nil && client != XrplClient {
			return client.Close()
		}
		return nil
	})
}

func CloseAll() {
	logger.Log.Info().Msg("Closing all connections")

	UnsubscribeStreams()

	var wg sync.WaitGroup
	for _, closeFn := range []func(){CloseXrplClient, CloseXrplRPCClient, CloseKafkaWriter} {
		wg.Add(1)
		go func(fn func()) {
			defer wg.Done()
			fn()
		}(closeFn)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Log.Info().Msg("All connections closed successfully")
	case <-time.After(15 * time.Second):
		logger.Log.Warn().Msg("Timeout waiting for all connections to close")
	}
}
