package alerts

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"github.com/xrpscan/burnwatch/logger"
)

// SlackAPI is the part of *slack.Client the sink uses.
type SlackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
}

// SlackSink posts alerts to a single channel.
type SlackSink struct {
	api       SlackAPI
	channelID string
}

func NewSlackSink(api SlackAPI, channelID string) *SlackSink {
	return &SlackSink{api: api, channelID: channelID}
}

func (s *SlackSink) Name() string {
	return "slack"
}

func (s *SlackSink) Deliver(ctx context.Context, alert Alert) error {
	_, ts, err := s.api.PostMessageContext(ctx, s.channelID, slack.MsgOptionText(alert.Message, false))
	if err != nil {
		return fmt.Errorf("slack post to %s: %w", s.channelID, err)
	}
	logger.Log.Debug().Str("alert_id", alert.ID).Str("ts", ts).Msg("Alert sent to Slack")
	return nil
}

// ResolveSlackChannel finds the id of a channel named name that the bot is a
// member of.
func ResolveSlackChannel(ctx context.Context, api SlackAPI, name string) (string, error) {
	params := &slack.GetConversationsParameters{
		ExcludeArchived: true,
		Limit:           200,
		Types:           []string{"public_channel", "private_channel"},
	}
	for {
		channels, cursor, err := api.GetConversationsContext(ctx, params)
		if err != nil {
			return "", fmt.Errorf("list slack channels: %w", err)
		}
		for _, c := range channels {
			if !c.IsMember {
				continue
			}
			logger.Log.Debug().Str("channel", c.Name).Msg("Member of Slack channel")
			if c.Name == name {
				logger.Log.Info().Str("channel", c.Name).Str("channel_id", c.ID).Msg("Using Slack channel")
				return c.ID, nil
			}
		}
		if cursor == "" {
			return "", fmt.Errorf("slack channel #%s not found or not member", name)
		}
		params.Cursor = cursor
	}
}
