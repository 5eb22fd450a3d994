package producers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xrpscan/burnwatch/models"
)

type recordingSubmitter struct {
	events []models.Event
}

func (r *recordingSubmitter) Submit(_ context.Context, ev models.Event) error {
	r.events = append(r.events, ev)
	return nil
}

func TestProducerForwardsInReceiptOrder(t *testing.T) {
	sink := &recordingSubmitter{}
	p := &producer{sink: sink}
	ctx := context.Background()

	p.handleLedger(ctx, []byte(`{"type":"ledgerClosed","ledger_index":100}`))
	p.handleTransaction(ctx, []byte(`{"type":"transaction","transaction":{"Fee":"12","hash":"H1"}}`))
	p.handleLedger(ctx, []byte(`{"type":"ledgerClosed","ledger_index":103}`))

	assert.Equal(t, []models.Event{
		models.LedgerClosed{Sequence: 100},
		models.TransactionEvent{Fee: "12", Hash: "H1"},
		models.LedgerClosed{Sequence: 103},
	}, sink.events)
	assert.Equal(t, uint32(103), p.lastLedger)
}

func TestProducerSkipsUnreadableMessages(t *testing.T) {
	sink := &recordingSubmitter{}
	p := &producer{sink: sink}
	ctx := context.Background()

	p.handleLedger(ctx, []byte(`{"type":"ledgerClosed"}`))
	p.handleLedger(ctx, []byte(`garbage`))
	p.handleTransaction(ctx, []byte(`{"type":"transaction"}`))

	assert.Empty(t, sink.events)
}
