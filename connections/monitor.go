package connections

import (
	"context"
	"time"

	"github.com/xrpscan/burnwatch/logger"
)

// connectionCheck pairs a health probe with the way to rebuild the
// connection it covers.
type connectionCheck struct {
	name      string
	health    func() error
	reconnect func()
}

func xrplConnectionChecks() []connectionCheck {
	return []connectionCheck{
		{
			name: "XRPL client",
			health: func() error {
				client := XrplClient
				if client == nil {
					return nil
				}
				return safePing(client, "ping")
			},
			reconnect: func() {
				CloseXrplClient()
				NewXrplClient()
				SubscribeStreams()
			},
		},
		{
			// Ledger fetches go through this client, so a dead socket here
			// drops every ledger until it is rebuilt.
			name:   "XRPL RPC client",
			health: CheckXRPLRPCConnectionHealth,
			reconnect: func() {
				CloseXrplRPCClient()
				NewXrplRPCClient()
			},
		},
	}
}

// MonitorXRPLConnection periodically pings the streaming and RPC clients and
// rebuilds whichever fails.
func MonitorXRPLConnection(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	checks := xrplConnectionChecks()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runConnectionChecks(checks)
		}
	}
}

func runConnectionChecks(checks []connectionCheck) {
	for _, check := range checks {
		if err := check.health(); err != nil {
			logger.Log.Warn().Err(err).Str("connection", check.name).Msg("Health check failed; reconnecting")
			check.reconnect()
		}
	}
}
