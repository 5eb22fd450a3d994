package connections

import (
	"fmt"
	"strings"
	"time"

	"github.com/xrpscan/burnwatch/config"
	"github.com/xrpscan/burnwatch/logger"
	"github.com/xrpscan/xrpl-go"
)

// XrplRPCClient is used for request/response (RPC) calls so that ledger
// fetches do not contend with the streaming client.
var XrplRPCClient *xrpl.Client

// NewXrplRPCClient initializes RPC client using full-history URL if available
func NewXrplRPCClient() {
	url := config.EnvXrplWebsocketFullHistoryURL()
	if url == "" {
		url = config.EnvXrplWebsocketURL()
	}
	NewXrplRPCClientWithURL(url)
}

func NewXrplRPCClientWithURL(URL string) {
	backoff := time.Second
	attempt := 0

	for {
		attempt++
		logger.Log.Info().Str("url", URL).Int("attempt", attempt).Msg("Attempting to connect XRPL RPC client")

		XrplRPCClient = xrpl.NewClient(xrpl.ClientConfig{URL: URL})
		err := safePing(XrplRPCClient, URL)
		if err == nil {
			logger.Log.Info().Str("url", URL).Int("attempt", attempt).Msg("Successfully connected XRPL RPC client")
			return
		}

		if isIPLimitError(err) {
			logger.Log.Warn().Str("url", URL).Int("attempt", attempt).Err(err).Msg("IP limit reached during initial connection, waiting 5 minutes")
			time.Sleep(5 * time.Minute)
			backoff = time.Second
			continue
		}
		logger.Log.Warn().Str("url", URL).Int("attempt", attempt).Dur("retry_in", backoff).Err(err).Msg("XRPL RPC connect failed; retrying infinitely")
		time.Sleep(backoff)
		backoff = nextBackoff(backoff)
	}
}

// GetXRPLRequestClient returns preferred client for RPC requests
func GetXRPLRequestClient() *xrpl.Client {
	if XrplRPCClient != nil {
		return XrplRPCClient
	}
	return XrplClient
}

// CheckXRPLRPCConnectionHealth checks if the RPC client connection is healthy
func CheckXRPLRPCConnectionHealth() error {
	client := GetXRPLRequestClient()
	if client == nil {
		return fmt.Errorf("XRPL RPC client is not initialized")
	}
	if err := safePing(client, "health_check"); err != nil {
		logger.Log.Warn().Err(err).Msg("XRPL RPC client health check failed")
		return err
	}
	return nil
}

// isIPLimitError checks if the error is specifically about IP limit reached
func isIPLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "close 1008") ||
		strings.Contains(errStr, "policy violation") ||
		strings.Contains(errStr, "IP limit reached")
}

// isWebSocketError checks if the error is related to WebSocket connection issues
func isWebSocketError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "websocket") ||
		strings.Contains(errStr, "close 1006") ||
		strings.Contains(errStr, "unexpected EOF") ||
		strings.Contains(errStr, "connection reset")
}
