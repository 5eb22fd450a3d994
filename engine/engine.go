// Package engine consumes the ordered event stream, maintains the ledger
// history and runs the sentinels.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xrpscan/burnwatch/alerts"
	"github.com/xrpscan/burnwatch/amount"
	"github.com/xrpscan/burnwatch/history"
	"github.com/xrpscan/burnwatch/logger"
	"github.com/xrpscan/burnwatch/models"
	"github.com/xrpscan/burnwatch/sentinels"
)

const maxFetchBackoff = 30 * time.Second

// LedgerFetcher loads the detail of a closed ledger. It may block.
type LedgerFetcher interface {
	FetchLedger(ctx context.Context, sequence uint32) (models.LedgerDetail, error)
}

// ledgerSentinel runs after every append and may produce one alert message.
type ledgerSentinel interface {
	OnLedgerAppended(h *history.History) (string, bool)
}

// Notifier accepts alerts without blocking or failing.
type Notifier interface {
	Notify(alert alerts.Alert)
}

type Config struct {
	FeeThreshold     amount.Drops
	BurnThreshold    amount.Drops
	WindowSize       int
	TxLinkTemplate   string
	FetchMaxAttempts int
	FetchBackoff     time.Duration
	QueueSize        int
}

func DefaultConfig() Config {
	return Config{
		FeeThreshold:     amount.FromInt64(sentinels.DefaultFeeThresholdDrops),
		BurnThreshold:    amount.FromInt64(sentinels.DefaultBurnThresholdDrops),
		WindowSize:       sentinels.DefaultWindowSize,
		TxLinkTemplate:   sentinels.DefaultTxLinkTemplate,
		FetchMaxAttempts: 3,
		FetchBackoff:     time.Second,
		QueueSize:        1024,
	}
}

// Engine is the only writer of its history. All events go through one
// channel and are handled one at a time, so no locking guards the history.
type Engine struct {
	cfg      Config
	fetcher  LedgerFetcher
	notifier Notifier

	events    chan models.Event
	closeOnce sync.Once

	history *history.History
	fee     *sentinels.FeeSentinel
	burn    ledgerSentinel
	window  ledgerSentinel

	statusMu sync.Mutex
	status   Status
}

func New(cfg Config, fetcher LedgerFetcher, notifier Notifier) (*Engine, error) {
	if fetcher == nil {
		return nil, errors.New("engine: nil ledger fetcher")
	}
	if notifier == nil {
		return nil, errors.New("engine: nil notifier")
	}
	window, err := sentinels.NewWindowAggregator(cfg.WindowSize)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if cfg.FetchMaxAttempts < 1 {
		cfg.FetchMaxAttempts = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}

	return &Engine{
		cfg:      cfg,
		fetcher:  fetcher,
		notifier: notifier,
		events:   make(chan models.Event, cfg.QueueSize),
		history:  history.New(),
		fee:      sentinels.NewFeeSentinel(cfg.FeeThreshold, cfg.TxLinkTemplate),
		burn:     sentinels.NewBurnSentinel(cfg.BurnThreshold),
		window:   window,
		status: Status{
			Alerts:     map[alerts.Kind]uint64{},
			WindowSize: cfg.WindowSize,
		},
	}, nil
}

// Submit queues ev behind every event submitted before it. It blocks while
// the queue is full. Submit must not be called after Close.
func (e *Engine) Submit(ctx context.Context, ev models.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case e.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends the event stream. Run returns once queued events are handled.
func (e *Engine) Close() {
	e.closeOnce.Do(func() { close(e.events) })
}

// Run consumes events until ctx is cancelled or Close is called. An event
// that has started being handled is finished first, except for a pending
// ledger fetch, which is abandoned without appending.
func (e *Engine) Run(ctx context.Context) error {
	logger.Log.Info().
		Int("window_size", e.cfg.WindowSize).
		Str("fee_threshold", e.cfg.FeeThreshold.String()).
		Str("burn_threshold", e.cfg.BurnThreshold.String()).
		Msg("Engine started")

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info().Msg("Engine stopped")
			return ctx.Err()
		case ev, ok := <-e.events:
			if !ok {
				logger.Log.Info().Msg("Event stream closed, engine stopped")
				return nil
			}
			e.handle(ctx, ev)
		}
	}
}

func (e *Engine) handle(ctx context.Context, ev models.Event) {
	switch ev := ev.(type) {
	case models.TransactionEvent:
		e.handleTransaction(ev)
	case models.LedgerClosed:
		e.handleLedgerClosed(ctx, ev)
	default:
		logger.Log.Warn().Str("event_type", fmt.Sprintf("%T", ev)).Msg("Unknown event type ignored")
	}
}

func (e *Engine) handleTransaction(ev models.TransactionEvent) {
	e.updateStatus(func(s *Status) { s.TransactionsSeen++ })
	logger.Log.Trace().Str("tx_hash", ev.Hash).Str("fee", ev.Fee).Msg("Transaction")

	var evalErr error
	msg, ok := e.evaluate("fee", func() (string, bool) {
		m, fired, err := e.fee.Evaluate(ev)
		evalErr = err
		return m, fired
	})
	if evalErr != nil {
		e.updateStatus(func(s *Status) { s.MalformedEvents++ })
		logger.Log.Error().Err(evalErr).Str("tx_hash", ev.Hash).Msg("Skipping malformed transaction event")
		return
	}
	if ok {
		e.raise(alerts.KindFee, 0, msg)
	}
}

func (e *Engine) handleLedgerClosed(ctx context.Context, ev models.LedgerClosed) {
	detail, err := e.fetchLedger(ctx, ev.Sequence)
	if err != nil {
		e.updateStatus(func(s *Status) { s.LedgersDropped++ })
		logger.Log.Error().Err(err).Uint32("ledger_index", ev.Sequence).Msg("Ledger not recorded, history has a gap")
		return
	}

	snapshot, err := toSnapshot(ev, detail)
	if err != nil {
		e.updateStatus(func(s *Status) {
			s.MalformedEvents++
			s.LedgersDropped++
		})
		logger.Log.Error().Err(err).Uint32("ledger_index", ev.Sequence).Msg("Skipping malformed ledger detail")
		return
	}

	e.history.Append(snapshot)
	historyLen := e.history.Len()
	e.updateStatus(func(s *Status) {
		s.LedgersAppended++
		s.LastSequence = snapshot.Sequence
		s.LastTotalDrops = snapshot.TotalDrops.String()
		s.HistoryLength = historyLen
	})
	logger.Log.Debug().
		Uint32("ledger_index", snapshot.Sequence).
		Str("total_drops", snapshot.TotalDrops.String()).
		Int("history_length", historyLen).
		Msg("Ledger appended")

	if msg, ok := e.evaluate("burn", func() (string, bool) { return e.burn.OnLedgerAppended(e.history) }); ok {
		e.raise(alerts.KindBurn, snapshot.Sequence, msg)
	}
	if msg, ok := e.evaluate("window", func() (string, bool) { return e.window.OnLedgerAppended(e.history) }); ok {
		e.raise(alerts.KindSummary, snapshot.Sequence, msg)
	}
}

func toSnapshot(ev models.LedgerClosed, detail models.LedgerDetail) (history.Snapshot, error) {
	total, err := amount.Parse(detail.TotalDrops)
	if err != nil {
		return history.Snapshot{}, &models.MalformedEventError{Field: "total_coins", Value: detail.TotalDrops, Err: err}
	}
	if total.IsNegative() {
		return history.Snapshot{}, &models.MalformedEventError{Field: "total_coins", Value: detail.TotalDrops, Err: errors.New("negative total")}
	}

	seq := detail.Sequence
	if seq == 0 {
		seq = ev.Sequence
	} else if seq != ev.Sequence {
		logger.Log.Warn().Uint32("notified", ev.Sequence).Uint32("fetched", seq).Msg("Fetched ledger sequence differs from notification")
	}
	return history.Snapshot{Sequence: seq, TotalDrops: total}, nil
}

// fetchLedger retries with doubling backoff. Failures come back as
// *models.FetchFailureError; cancellation stops retrying immediately.
func (e *Engine) fetchLedger(ctx context.Context, sequence uint32) (models.LedgerDetail, error) {
	backoff := e.cfg.FetchBackoff
	var lastErr error
	attempt := 0
	for attempt < e.cfg.FetchMaxAttempts {
		attempt++
		detail, err := e.fetcher.FetchLedger(ctx, sequence)
		if err == nil {
			return detail, nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == e.cfg.FetchMaxAttempts {
			break
		}

		logger.Log.Warn().Err(err).Uint32("ledger_index", sequence).Int("attempt", attempt).Dur("retry_in", backoff).Msg("Ledger fetch failed; retrying")
		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return models.LedgerDetail{}, &models.FetchFailureError{Sequence: sequence, Attempts: attempt, Err: ctx.Err()}
		}
		if backoff < maxFetchBackoff {
			backoff *= 2
			if backoff > maxFetchBackoff {
				backoff = maxFetchBackoff
			}
		}
	}
	return models.LedgerDetail{}, &models.FetchFailureError{Sequence: sequence, Attempts: attempt, Err: lastErr}
}

// evaluate runs one sentinel; a panic is logged and treated as no alert.
func (e *Engine) evaluate(name string, fn func() (string, bool)) (msg string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error().Str("sentinel", name).Interface("panic", r).Msg("Sentinel panicked")
			msg, ok = "", false
		}
	}()
	return fn()
}

func (e *Engine) raise(kind alerts.Kind, sequence uint32, msg string) {
	e.updateStatus(func(s *Status) { s.Alerts[kind]++ })
	e.notifier.Notify(alerts.New(kind, sequence, msg))
}
