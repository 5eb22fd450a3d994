package sentinels

import (
	"fmt"

	"github.com/xrpscan/burnwatch/amount"
	"github.com/xrpscan/burnwatch/history"
)

// WindowSummary describes the burn across one block of ledgers.
type WindowSummary struct {
	FirstSequence uint32
	LastSequence  uint32
	TotalLost     amount.Drops
	Min           amount.Drops
	Max           amount.Drops
}

// WindowAggregator summarises the last Size ledgers each time a ledger
// whose sequence is a multiple of Size is appended.
type WindowAggregator struct {
	size int
}

func NewWindowAggregator(size int) (*WindowAggregator, error) {
	if size < 2 {
		return nil, fmt.Errorf("window size must be at least 2, got %d", size)
	}
	return &WindowAggregator{size: size}, nil
}

func (w *WindowAggregator) Size() int {
	return w.size
}

// OnLedgerAppended must be called right after each append, after the burn
// check. It fires only when more than Size ledgers are held, so a first
// block that happens to end on a multiple is not summarised.
func (w *WindowAggregator) OnLedgerAppended(h *history.History) (string, bool) {
	current, ok := h.Last()
	if !ok || current.Sequence%uint32(w.size) != 0 || h.Len() <= w.size {
		return "", false
	}

	block, err := h.LastN(w.size)
	if err != nil {
		return "", false
	}
	summary, err := Summarize(block)
	if err != nil {
		return "", false
	}
	return summary.Message(), true
}

// Summarize walks consecutive pairs of block. Min and Max start at the
// first delta, not at an infinity.
func Summarize(block []history.Snapshot) (WindowSummary, error) {
	if len(block) < 2 {
		return WindowSummary{}, &history.InsufficientHistoryError{Requested: 2, Available: len(block)}
	}

	summary := WindowSummary{
		FirstSequence: block[0].Sequence,
		LastSequence:  block[len(block)-1].Sequence,
	}
	for i := 1; i < len(block); i++ {
		lost := Lost(block[i-1], block[i])
		if i == 1 || lost.LessThan(summary.Min) {
			summary.Min = lost
		}
		if i == 1 || lost.GreaterThan(summary.Max) {
			summary.Max = lost
		}
		summary.TotalLost = summary.TotalLost.Add(lost)
	}
	return summary, nil
}

func (s WindowSummary) Message() string {
	return fmt.Sprintf("For ledgers %d to %d, a total of %s drops were burned (%s XRP).\n\nmin: %s (%s XRP).\nmax: %s (%s XRP).",
		s.FirstSequence, s.LastSequence,
		s.TotalLost, s.TotalLost.XRP(),
		s.Min, s.Min.XRP(),
		s.Max, s.Max.XRP(),
	)
}
