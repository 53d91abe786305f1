package analytics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Buffer batches live engagement records into the engine so the hot
// mutation path never waits on an OLAP write. Enqueue never blocks the
// caller; flushing happens on a timer or when the batch fills.
type Buffer struct {
	engine        *Engine
	maxBatchSize  int
	flushInterval time.Duration

	mu      sync.Mutex
	pending []EngagementRecord

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	log      *zap.Logger
}

// NewBuffer creates a buffer in front of the engine.
func NewBuffer(engine *Engine, maxBatchSize int, flushInterval time.Duration, log *zap.Logger) *Buffer {
	if maxBatchSize <= 0 {
		maxBatchSize = 100
	}
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Buffer{
		engine:        engine,
		maxBatchSize:  maxBatchSize,
		flushInterval: flushInterval,
		stopChan:      make(chan struct{}),
		log:           log.Named("analytics-buffer"),
	}
}

// Start begins the automatic flush goroutine.
func (b *Buffer) Start(ctx context.Context) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		ticker := time.NewTicker(b.flushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-b.stopChan:
				return
			case <-ticker.C:
				if err := b.Flush(ctx); err != nil {
					b.log.Error("flush failed", zap.Error(err))
				}
			}
		}
	}()
}

// Stop halts the flush goroutine and drains what is pending.
func (b *Buffer) Stop() {
	b.stopOnce.Do(func() { close(b.stopChan) })
	b.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.Flush(ctx); err != nil {
		b.log.Error("final flush failed", zap.Error(err))
	}
}

// Enqueue adds one record to the pending batch. A full batch triggers
// an asynchronous flush.
func (b *Buffer) Enqueue(rec EngagementRecord) {
	b.mu.Lock()
	b.pending = append(b.pending, rec)
	full := len(b.pending) >= b.maxBatchSize
	b.mu.Unlock()

	if full {
		go func() {
			if err := b.Flush(context.Background()); err != nil {
				b.log.Error("auto-flush failed", zap.Error(err))
			}
		}()
	}
}

// Flush ingests all pending records. Records that fail are re-queued
// for the next flush.
func (b *Buffer) Flush(ctx context.Context) error {
	b.mu.Lock()
	if len(b.pending) == 0 {
		b.mu.Unlock()
		return nil
	}
	batch := b.pending
	b.pending = nil
	b.mu.Unlock()

	ingested, err := b.engine.IngestBatch(ctx, batch)
	if err != nil {
		b.mu.Lock()
		b.pending = append(b.pending, batch[ingested:]...)
		b.mu.Unlock()
		return err
	}

	b.log.Debug("flushed engagement batch", zap.Int("records", ingested))
	return nil
}

// PendingCount reports how many records await the next flush.
func (b *Buffer) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
