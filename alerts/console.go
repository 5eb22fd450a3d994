package alerts

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/xrpscan/burnwatch/logger"
)

// ConsoleSink prints every alert, one message per write.
type ConsoleSink struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out}
}

func (s *ConsoleSink) Name() string {
	return "console"
}

func (s *ConsoleSink) Deliver(_ context.Context, alert Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Log.Info().
		Str("alert_id", alert.ID).
		Str("kind", string(alert.Kind)).
		Uint32("ledger_index", alert.Sequence).
		Msg("Alert raised")

	_, err := fmt.Fprintln(s.out, alert.Message)
	return err
}
