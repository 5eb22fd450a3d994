package connections

import (
	"fmt"
	"time"

	"github.com/xrpscan/burnwatch/config"
	"github.com/xrpscan/burnwatch/logger"
	"github.com/xrpscan/xrpl-go"
)

// XrplClient carries the ledger and transactions streams.
var XrplClient *xrpl.Client

func NewXrplClient() {
	NewXrplClientWithURL(config.EnvXrplWebsocketURL())
}

func NewXrplClientWithURL(URL string) {
	// Infinite retry loop with exponential backoff until a successful ping
	backoff := time.Second
	attempt := 0

	for {
		attempt++
		logger.Log.Info().Str("url", URL).Int("attempt", attempt).Msg("Attempting to connect XRPL client")

		// Close old client if exists before creating new one
		if old := XrplClient; old != nil {
			go func() {
				if err := old.Close(); err != nil {
					logger.Log.Debug().Err(err).Msg("Error closing old XRPL client during reconnection")
				}
			}()
		}

		XrplClient = xrpl.NewClient(xrpl.ClientConfig{URL: URL})
		err := safePing(XrplClient, URL)
		if err == nil {
			logger.Log.Info().Str("url", URL).Int("attempt", attempt).Msg("Successfully connected XRPL client")
			logServerInfo(XrplClient)
			return
		}

		logger.Log.Warn().Str("url", URL).Int("attempt", attempt).Dur("retry_in", backoff).Err(err).Msg("XRPL connect failed; retrying infinitely")
		time.Sleep(backoff)
		backoff = nextBackoff(backoff)
	}
}

// safePing guards against the client panicking on a nil connection.
func safePing(client *xrpl.Client, payload string) (err error) {
	if client == nil {
		return fmt.Errorf("XRPL client is nil")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during ping: %v", r)
		}
	}()
	return client.Ping([]byte(payload))
}

func nextBackoff(backoff time.Duration) time.Duration {
	const maxBackoff = 30 * time.Second
	if backoff >= maxBackoff {
		return maxBackoff
	}
	backoff *= 2
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	return backoff
}

// logServerInfo reports which rippled we landed on and its ledger range.
func logServerInfo(client *xrpl.Client) {
	response, err := client.Request(xrpl.BaseRequest{"command": "server_info"})
	if err != nil {
		logger.Log.Warn().Err(err).Msg("server_info request failed")
		return
	}
	result, _ := response["result"].(map[string]interface{})
	info, _ := result["info"].(map[string]interface{})
	logger.Log.Info().
		Any("build_version", info["build_version"]).
		Any("complete_ledgers", info["complete_ledgers"]).
		Msg("Connected to rippled")
}
