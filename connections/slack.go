package connections

import (
	"context"
	"time"

	"github.com/slack-go/slack"
	"github.com/xrpscan/burnwatch/alerts"
	"github.com/xrpscan/burnwatch/config"
	"github.com/xrpscan/burnwatch/logger"
)

// NewSlackSink returns nil when no token is configured or the channel cannot
// be found; alerts then only go to the other sinks.
func NewSlackSink(ctx context.Context) *alerts.SlackSink {
	token := config.EnvSlackToken()
	if token == "" {
		logger.Log.Info().Msg("SLACK_TOKEN not set, Slack alerts disabled")
		return nil
	}

	client := slack.New(token)
	channelID := config.EnvSlackChannelID()
	if channelID == "" {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		id, err := alerts.ResolveSlackChannel(ctx, client, config.EnvSlackChannelName())
		if err != nil {
			logger.Log.Error().Err(err).Msg("Slack alerts disabled")
			return nil
		}
		channelID = id
	}
	return alerts.NewSlackSink(client, channelID)
}
