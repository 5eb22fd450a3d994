package connections

import (
	"context"
	"time"

	"github.com/xrpscan/burnwatch/logger"
	"github.com/xrpscan/xrpl-go"
)

// Streams the monitor listens to. Transactions only need Fee and hash, so
// the stream's format differences from rippled's `tx` output do not matter.
var subscribedStreams = []string{
	xrpl.StreamTypeLedger,
	xrpl.StreamTypeTransaction,
}

func SubscribeStreams() {
	// Retry subscribe with exponential backoff until successful
	backoff := time.Second

	for {
		if XrplClient == nil {
			logger.Log.Warn().Dur("retry_in", backoff).Msg("XRPL client not initialized; waiting before subscribing")
			time.Sleep(backoff)
			backoff = nextBackoff(backoff)
			continue
		}

		response, err := XrplClient.Subscribe(subscribedStreams)
		if err != nil {
			logger.Log.Warn().Dur("retry_in", backoff).Err(err).Msg("xrpl.Subscribe failed; retrying")
		} else if status, ok := response["status"].(string); ok && status == "error" {
			logger.Log.Warn().Dur("retry_in", backoff).Any("error", response["error"]).Any("error_message", response["error_message"]).Msg("xrpl.Subscribe returned error; retrying")
		} else {
			logger.Log.Info().Any("status", response["status"]).Strs("streams", subscribedStreams).Msg("xrpl.Subscribe successful")
			return
		}

		time.Sleep(backoff)
		backoff = nextBackoff(backoff)
	}
}

/*
* Unsubscribe XRPL streams (usually before disconnecting)
* Uses timeout to prevent hanging during shutdown
 */
func UnsubscribeStreams() {
	client := XrplClient
	if client == nil {
		logger.Log.Debug().Msg("xrpl.Unsubscribe skipped - client is nil")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	var response xrpl.BaseResponse
	var err error

	go func() {
		defer close(done)
		response, err = client.Unsubscribe(subscribedStreams)
	}()

	select {
	case <-done:
		if err != nil {
			logger.Log.Error().Err(err).Msg("xrpl.Unsubscribe")
		} else {
			logger.Log.Debug().Any("status", response["status"]).Msg("xrpl.Unsubscribe")
		}
	case <-ctx.Done():
		logger.Log.Warn().Msg("xrpl.Unsubscribe timed out after 5 seconds")
	}
}
