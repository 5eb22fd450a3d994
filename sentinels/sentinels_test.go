package sentinels

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xrpscan/burnwatch/amount"
	"github.com/xrpscan/burnwatch/history"
	"github.com/xrpscan/burnwatch/models"
)

func historyOf(seqStart uint32, totals ...int64) *history.History {
	h := history.New()
	for i, total := range totals {
		h.Append(history.Snapshot{Sequence: seqStart + uint32(i), TotalDrops: amount.FromInt64(total)})
	}
	return h
}

func TestFeeSentinelBoundaryIsExclusive(t *testing.T) {
	s := NewFeeSentinel(amount.FromInt64(DefaultFeeThresholdDrops), "")

	msg, ok, err := s.Evaluate(models.TransactionEvent{Fee: "1500000", Hash: "ABC123"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "I saw a transaction pay a fee of 1500000 drops (1.5 XRP). https://xrpcharts.ripple.com/#/transactions/ABC123", msg)

	_, ok, err = s.Evaluate(models.TransactionEvent{Fee: "1000000", Hash: "ABC123"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.Evaluate(models.TransactionEvent{Fee: "1000001", Hash: "ABC123"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFeeSentinelMalformedFee(t *testing.T) {
	s := NewFeeSentinel(amount.FromInt64(DefaultFeeThresholdDrops), "")
	for _, fee := range []string{"", "ten", "1.25", "-5"} {
		_, ok, err := s.Evaluate(models.TransactionEvent{Fee: fee, Hash: "X"})
		assert.False(t, ok, fee)
		var mee *models.MalformedEventError
		require.True(t, errors.As(err, &mee), fee)
		assert.Equal(t, "Fee", mee.Field)
	}
}

func TestFeeSentinelLinkTemplate(t *testing.T) {
	s := NewFeeSentinel(amount.FromInt64(10), "https://livenet.xrpl.org/transactions/%s")
	msg, ok, err := s.Evaluate(models.TransactionEvent{Fee: "11", Hash: "FF"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, msg, "https://livenet.xrpl.org/transactions/FF")
	assert.Contains(t, msg, "(0.000011 XRP)")
}

func TestBurnSentinelFires(t *testing.T) {
	s := NewBurnSentinel(amount.FromInt64(DefaultBurnThresholdDrops))

	msg, ok := s.OnLedgerAppended(historyOf(100, 1000000000, 999996000))
	require.True(t, ok)
	assert.Equal(t, "Ledger 101 burned 4000000 drops (4 XRP).", msg)
}

func TestBurnSentinelQuiet(t *testing.T) {
	s := NewBurnSentinel(amount.FromInt64(DefaultBurnThresholdDrops))

	_, ok := s.OnLedgerAppended(historyOf(100, 1000000000, 999999500))
	assert.False(t, ok)

	_, ok = s.OnLedgerAppended(historyOf(100, 1000000000, 997000000))
	assert.False(t, ok, "exactly the threshold does not fire")

	_, ok = s.OnLedgerAppended(historyOf(100, 1000000000))
	assert.False(t, ok, "first ledger has nothing to compare to")

	_, ok = s.OnLedgerAppended(historyOf(100, 1000000000, 1010000000))
	assert.False(t, ok, "supply increase is a negative loss")
}

func TestBurnSentinelUsesOnlyLastTwo(t *testing.T) {
	s := NewBurnSentinel(amount.FromInt64(DefaultBurnThresholdDrops))
	// Large drop earlier in history, small drop at the end.
	_, ok := s.OnLedgerAppended(historyOf(1, 2000000000, 1000000000, 999999999))
	assert.False(t, ok)
}

func TestBurnSentinelIgnoresSequenceGaps(t *testing.T) {
	s := NewBurnSentinel(amount.FromInt64(DefaultBurnThresholdDrops))
	h := history.New()
	h.Append(history.Snapshot{Sequence: 10, TotalDrops: amount.FromInt64(1000000000)})
	h.Append(history.Snapshot{Sequence: 50, TotalDrops: amount.FromInt64(990000000)})

	msg, ok := s.OnLedgerAppended(h)
	require.True(t, ok)
	assert.Contains(t, msg, "Ledger 50 burned 10000000 drops")
}

func TestNewWindowAggregatorRejectsTinyWindows(t *testing.T) {
	_, err := NewWindowAggregator(1)
	assert.Error(t, err)
	_, err = NewWindowAggregator(0)
	assert.Error(t, err)
	w, err := NewWindowAggregator(2)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Size())
}

// alternatingHistory appends W+1 snapshots with sequences 1000..2000.
// Step i (from snapshot i-1 to i) loses 100000 drops when i is odd and
// gains 50000 drops when i is even.
func alternatingHistory(w int) *history.History {
	h := history.New()
	total := amount.FromInt64(1_000_000_000_000)
	h.Append(history.Snapshot{Sequence: 1000, TotalDrops: total})
	for i := 1; i <= w; i++ {
		if i%2 == 1 {
			total = total.Sub(amount.FromInt64(100_000))
		} else {
			total = total.Add(amount.FromInt64(50_000))
		}
		h.Append(history.Snapshot{Sequence: 1000 + uint32(i), TotalDrops: total})
	}
	return h
}

func TestWindowAggregatorAlternatingDeltas(t *testing.T) {
	w, err := NewWindowAggregator(DefaultWindowSize)
	require.NoError(t, err)
	h := alternatingHistory(DefaultWindowSize)
	require.Equal(t, DefaultWindowSize+1, h.Len())

	block, err := h.LastN(DefaultWindowSize)
	require.NoError(t, err)
	summary, err := Summarize(block)
	require.NoError(t, err)

	// The block holds snapshots 1..1000, so its deltas are steps 2..1000:
	// 499 odd steps of +100000 and 500 even steps of -50000.
	assert.Equal(t, uint32(1001), summary.FirstSequence)
	assert.Equal(t, uint32(2000), summary.LastSequence)
	assert.Equal(t, "24900000", summary.TotalLost.String())
	assert.Equal(t, "-50000", summary.Min.String())
	assert.Equal(t, "100000", summary.Max.String())

	msg, ok := w.OnLedgerAppended(h)
	require.True(t, ok)
	assert.Equal(t, "For ledgers 1001 to 2000, a total of 24900000 drops were burned (24.9 XRP).\n\nmin: -50000 (-0.05 XRP).\nmax: 100000 (0.1 XRP).", msg)
}

func TestWindowAggregatorNeedsMoreThanWindow(t *testing.T) {
	w, err := NewWindowAggregator(4)
	require.NoError(t, err)

	// Exactly W entries ending on a multiple of W: skipped.
	_, ok := w.OnLedgerAppended(historyOf(5, 100, 90, 80, 70))
	assert.False(t, ok)

	// W+1 entries ending on a multiple of W: fires.
	msg, ok := w.OnLedgerAppended(historyOf(4, 100, 90, 80, 70, 60))
	require.True(t, ok)
	assert.Contains(t, msg, "For ledgers 5 to 8, a total of 30 drops")

	// W+1 entries not ending on a multiple: skipped.
	_, ok = w.OnLedgerAppended(historyOf(5, 100, 90, 80, 70, 60))
	assert.False(t, ok)
}

func TestWindowAggregatorSelectsByArrivalNotSequence(t *testing.T) {
	w, err := NewWindowAggregator(3)
	require.NoError(t, err)
	h := history.New()
	for i, seq := range []uint32{1, 2, 10, 20, 30} {
		h.Append(history.Snapshot{Sequence: seq, TotalDrops: amount.FromInt64(int64(1000 - i*10))})
	}
	msg, ok := w.OnLedgerAppended(h)
	require.True(t, ok)
	assert.Contains(t, msg, "For ledgers 10 to 30")
}

func TestSummarizeWindowOfTwoSeedsBothExtremes(t *testing.T) {
	block := []history.Snapshot{
		{Sequence: 1, TotalDrops: amount.FromInt64(100)},
		{Sequence: 2, TotalDrops: amount.FromInt64(130)},
	}
	summary, err := Summarize(block)
	require.NoError(t, err)
	assert.Equal(t, "-30", summary.Min.String())
	assert.Equal(t, "-30", summary.Max.String())
	assert.Equal(t, "-30", summary.TotalLost.String())
}

func TestSummarizeIsPure(t *testing.T) {
	block := []history.Snapshot{
		{Sequence: 1, TotalDrops: amount.FromInt64(100)},
		{Sequence: 2, TotalDrops: amount.FromInt64(95)},
		{Sequence: 3, TotalDrops: amount.FromInt64(97)},
		{Sequence: 4, TotalDrops: amount.FromInt64(80)},
	}
	first, err := Summarize(block)
	require.NoError(t, err)
	second, err := Summarize(block)
	require.NoError(t, err)
	assert.Equal(t, first.Message(), second.Message())
	assert.Equal(t, "20", first.TotalLost.String())
	assert.Equal(t, "-2", first.Min.String())
	assert.Equal(t, "17", first.Max.String())
}

func TestSummarizeRejectsShortBlocks(t *testing.T) {
	_, err := Summarize([]history.Snapshot{{Sequence: 1}})
	assert.ErrorIs(t, err, history.ErrInsufficientHistory)
}
