package engine

import "github.com/xrpscan/burnwatch/alerts"

// Status is a point-in-time copy of the engine counters.
type Status struct {
	TransactionsSeen uint64                 `json:"transactions_seen"`
	LedgersAppended  uint64                 `json:"ledgers_appended"`
	LedgersDropped   uint64                 `json:"ledgers_dropped"`
	MalformedEvents  uint64                 `json:"malformed_events"`
	Alerts           map[alerts.Kind]uint64 `json:"alerts"`
	LastSequence     uint32                 `json:"last_ledger_index,omitempty"`
	LastTotalDrops   string                 `json:"last_total_drops,omitempty"`
	HistoryLength    int                    `json:"history_length"`
	WindowSize       int                    `json:"window_size"`
}

// Status is safe to call from any goroutine.
func (e *Engine) Status() Status {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	s := e.status
	s.Alerts = make(map[alerts.Kind]uint64, len(e.status.Alerts))
	for k, v := range e.status.Alerts {
		s.Alerts[k] = v
	}
	return s
}

func (e *Engine) updateStatus(fn func(s *Status)) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	fn(&e.status)
}
