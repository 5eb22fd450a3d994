// Package history keeps the append-only record of closed ledgers.
package history

import (
	"errors"
	"fmt"

	"github.com/xrpscan/burnwatch/amount"
)

var ErrInsufficientHistory = errors.New("insufficient ledger history")

// InsufficientHistoryError reports a query for more snapshots than are held.
type InsufficientHistoryError struct {
	Requested int
	Available int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("%s: requested %d, have %d", ErrInsufficientHistory, e.Requested, e.Available)
}

func (e *InsufficientHistoryError) Is(target error) bool {
	return target == ErrInsufficientHistory
}

// Snapshot is one closed ledger: its sequence and the network-wide drops
// still in existence after it closed.
type Snapshot struct {
	Sequence   uint32
	TotalDrops amount.Drops
}

// History is ordered by arrival, which is not validated against Sequence.
// It has a single writer; readers must not run concurrently with Append.
type History struct {
	snapshots []Snapshot
}

func New() *History {
	return &History{}
}

func (h *History) Append(s Snapshot) {
	h.snapshots = append(h.snapshots, s)
}

func (h *History) Len() int {
	return len(h.snapshots)
}

// Last returns the most recently appended snapshot.
func (h *History) Last() (Snapshot, bool) {
	if len(h.snapshots) == 0 {
		return Snapshot{}, false
	}
	return h.snapshots[len(h.snapshots)-1], true
}

// LastN returns a copy of the n most recent snapshots, oldest first.
func (h *History) LastN(n int) ([]Snapshot, error) {
	if n < 0 || n > len(h.snapshots) {
		return nil, &InsufficientHistoryError{Requested: n, Available: len(h.snapshots)}
	}
	out := make([]Snapshot, n)
	copy(out, h.snapshots[len(h.snapshots)-n:])
	return out, nil
}
