package sentinels

import (
	"fmt"

	"github.com/xrpscan/burnwatch/amount"
	"github.com/xrpscan/burnwatch/history"
)

// BurnSentinel compares the two most recently appended ledgers.
type BurnSentinel struct {
	threshold amount.Drops
}

func NewBurnSentinel(threshold amount.Drops) *BurnSentinel {
	return &BurnSentinel{threshold: threshold}
}

// Lost is the number of drops destroyed between two snapshots.
func Lost(previous, current history.Snapshot) amount.Drops {
	return previous.TotalDrops.Sub(current.TotalDrops)
}

// OnLedgerAppended must be called right after each append. Sequence gaps
// between the two snapshots are not checked.
func (s *BurnSentinel) OnLedgerAppended(h *history.History) (string, bool) {
	if h.Len() < 2 {
		return "", false
	}
	pair, err := h.LastN(2)
	if err != nil {
		return "", false
	}

	lost := Lost(pair[0], pair[1])
	if !lost.GreaterThan(s.threshold) {
		return "", false
	}
	return fmt.Sprintf("Ledger %d burned %s drops (%s XRP).", pair[1].Sequence, lost, lost.XRP()), true
}
