package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/subha54820/Scam-Shield/internal/metrics"
)

// ErrQueueFull is returned by Enqueue when the buffer is saturated; the
// record is dropped.
var ErrQueueFull = errors.New("store: write queue full")

// ErrClosed is returned by Enqueue after Close.
var ErrClosed = errors.New("store: writer closed")

const (
	defaultBufferSize = 1024
	flushInterval     = 200 * time.Millisecond
	flushBatch        = 100
	flushTimeout      = 5 * time.Second
	drainTimeout      = 2 * time.Second
)

// AsyncWriter persists records in the background. Enqueue never blocks;
// records are batched and flushed on size or interval.
type AsyncWriter struct {
	w       BatchWriter
	buffer  chan Record
	done    chan struct{}
	flushed chan struct{} // closed by flushLoop when it returns
	logger  zerolog.Logger
	metrics *metrics.Metrics

	mu     sync.RWMutex
	closed bool
}

// AsyncOption configures an AsyncWriter.
type AsyncOption func(*AsyncWriter)

// WithLogger sets the logger for flush failures and drops.
func WithLogger(l zerolog.Logger) AsyncOption {
	return func(a *AsyncWriter) { a.logger = l }
}

// WithMetrics records write outcomes.
func WithMetrics(m *metrics.Metrics) AsyncOption {
	return func(a *AsyncWriter) { a.metrics = m }
}

// WithBufferSize sets the queue capacity.
func WithBufferSize(n int) AsyncOption {
	return func(a *AsyncWriter) {
		if n > 0 {
			a.buffer = make(chan Record, n)
		}
	}
}

// NewAsyncWriter starts the background flush loop.
func NewAsyncWriter(w BatchWriter, opts ...AsyncOption) *AsyncWriter {
	a := &AsyncWriter{
		w:       w,
		buffer:  make(chan Record, defaultBufferSize),
		done:    make(chan struct{}),
		flushed: make(chan struct{}),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	go a.flushLoop()
	return a
}

// Enqueue queues a record for insertion. It drops the record and returns
// ErrQueueFull when the buffer is full.
func (a *AsyncWriter) Enqueue(r Record) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.buffer <- r:
		return nil
	default:
		a.metrics.ObserveStoreWrite(metrics.StoreDropped)
		a.logger.Warn().Str("scan_id", r.ScanID.String()).Msg("store buffer full, dropping scan")
		return ErrQueueFull
	}
}

// Close drains queued records, waits for the final flush and returns.
// Safe to call more than once.
func (a *AsyncWriter) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		<-a.flushed
		return
	}
	a.closed = true
	close(a.done)
	a.mu.Unlock()
	<-a.flushed
}

func (a *AsyncWriter) flushLoop() {
	defer close(a.flushed)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]Record, 0, flushBatch)

	for {
		select {
		case r := <-a.buffer:
			batch = append(batch, r)
			if len(batch) >= flushBatch {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.done:
			deadline := time.After(drainTimeout)
		drainLoop:
			for {
				select {
				case r := <-a.buffer:
					batch = append(batch, r)
				case <-deadline:
					break drainLoop
				default:
					break drainLoop
				}
			}
			if len(batch) > 0 {
				a.flush(batch)
			}
			return
		}
	}
}

func (a *AsyncWriter) flush(records []Record) {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := a.w.SaveBatch(ctx, records); err != nil {
		for range records {
			a.metrics.ObserveStoreWrite(metrics.StoreError)
		}
		a.logger.Error().Err(err).Int("records", len(records)).Msg("failed to persist scans")
		return
	}
	for range records {
		a.metrics.ObserveStoreWrite(metrics.StoreOK)
	}
}
