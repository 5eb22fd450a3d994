package producers

import (
	"context"
	"time"

	"github.com/xrpscan/burnwatch/connections"
	"github.com/xrpscan/burnwatch/logger"
	"github.com/xrpscan/burnwatch/models"
)

// Submitter is the ordered entry point of the engine.
type Submitter interface {
	Submit(ctx context.Context, ev models.Event) error
}

// RunProducers forwards stream messages to sink in receipt order until ctx
// is cancelled. The streaming client is looked up on every iteration
// because the connection monitor may replace it.
func RunProducers(ctx context.Context, sink Submitter) {
	p := &producer{sink: sink}
	refresh := time.NewTicker(time.Second)
	defer refresh.Stop()

	for {
		client := connections.XrplClient
		if client == nil {
			select {
			case <-ctx.Done():
				return
			case <-refresh.C:
				continue
			}
		}

		select {
		case <-ctx.Done():
			return
		case message := <-client.StreamLedger:
			p.handleLedger(ctx, message)
		case message := <-client.StreamTransaction:
			p.handleTransaction(ctx, message)
		case <-client.StreamValidation:
			// ignore
		case <-client.StreamPeerStatus:
			// ignore
		case <-client.StreamConsensus:
			// ignore
		case <-client.StreamPathFind:
			// ignore
		case <-client.StreamManifest:
			// ignore
		case <-client.StreamServer:
			// ignore
		case <-client.StreamDefault:
			// ignore
		case <-refresh.C:
		}
	}
}

type producer struct {
	sink       Submitter
	lastLedger uint32
}

func (p *producer) handleLedger(ctx context.Context, message []byte) {
	ev, err := models.ParseLedgerStream(message)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Skipping unreadable ledger stream message")
		return
	}
	logger.Log.Info().Uint32("ledger_index", ev.Sequence).Msg("New ledger closed")

	// Missed ledgers are not backfilled; the burn of the next ledger is
	// measured across the gap.
	if p.lastLedger != 0 && ev.Sequence > p.lastLedger+1 {
		logger.Log.Warn().
			Uint32("from", p.lastLedger+1).
			Uint32("to", ev.Sequence-1).
			Uint32("count", ev.Sequence-p.lastLedger-1).
			Msg("Ledger stream skipped ledgers")
	}
	p.lastLedger = ev.Sequence

	p.submit(ctx, ev)
}

func (p *producer) handleTransaction(ctx context.Context, message []byte) {
	ev, err := models.ParseTransactionStream(message)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Skipping unreadable transaction stream message")
		return
	}
	p.submit(ctx, ev)
}

func (p *producer) submit(ctx context.Context, ev models.Event) {
	if err := p.sink.Submit(ctx, ev); err != nil {
		logger.Log.Warn().Err(err).Str("event_type", ev.EventType()).Msg("Event not submitted")
	}
}
