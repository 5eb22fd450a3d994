package alerts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xrpscan/burnwatch/logger"
)

const defaultDeliverTimeout = 10 * time.Second

// Dispatcher queues alerts and fans each one out to every sink on a
// background goroutine. Notify never blocks and never fails.
type Dispatcher struct {
	sinks   []Sink
	queue   chan Alert
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(queueSize int, sinks ...Sink) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		sinks:   sinks,
		queue:   make(chan Alert, queueSize),
		timeout: defaultDeliverTimeout,
	}
}

func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for alert := range d.queue {
			d.fanOut(alert)
		}
	}()
}

// Notify enqueues alert. It is dropped with a warning when the queue is full
// or the dispatcher is closed.
func (d *Dispatcher) Notify(alert Alert) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		logger.Log.Warn().Str("alert_id", alert.ID).Msg("Alert dropped, dispatcher closed")
		return
	}
	select {
	case d.queue <- alert:
	default:
		logger.Log.Warn().Str("alert_id", alert.ID).Str("kind", string(alert.Kind)).Msg("Alert dropped, queue full")
	}
}

// Close stops accepting alerts and waits for queued ones to be delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) fanOut(alert Alert) {
	for _, sink := range d.sinks {
		if err := d.deliver(sink, alert); err != nil {
			logger.Log.Error().Err(err).Str("sink", sink.Name()).Str("alert_id", alert.ID).Msg("Alert delivery failed")
		}
	}
}

func (d *Dispatcher) deliver(sink Sink, alert Alert) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in sink %s: %v", sink.Name(), r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	return sink.Deliver(ctx, alert)
}
