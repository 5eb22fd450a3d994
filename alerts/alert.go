// Package alerts delivers alert messages to the console, Slack and Kafka.
package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindFee     Kind = "fee"
	KindBurn    Kind = "burn"
	KindSummary Kind = "summary"
)

// Alert is a formatted message plus the metadata sinks may want to index.
// Sequence is zero for fee alerts.
type Alert struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Sequence  uint32    `json:"sequence,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func New(kind Kind, sequence uint32, message string) Alert {
	return Alert{
		ID:        uuid.NewString(),
		Kind:      kind,
		Sequence:  sequence,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// Sink delivers one alert. Errors are reported to the Dispatcher, which logs
// them; they never reach the engine.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, alert Alert) error
}
