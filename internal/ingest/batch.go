package ingest

import (
	"context"
	"time"

	"github.com/0xlong/across-analytics/internal/model"
)

// Batch groups raw logs from in into slices bounded by size and flush
// interval: a batch is emitted when it reaches size logs or when flush
// elapses with logs pending, whichever comes first. The output channel
// closes after in closes (flushing the remainder) or the context is
// cancelled.
func Batch(ctx context.Context, in <-chan model.RawLog, size int, flush time.Duration) <-chan []model.RawLog {
	if size <= 0 {
		size = 256
	}
	if flush <= 0 {
		flush = 2 * time.Second
	}

	out := make(chan []model.RawLog)
	go func() {
		defer close(out)

		ticker := time.NewTicker(flush)
		defer ticker.Stop()

		batch := make([]model.RawLog, 0, size)
		emit := func() bool {
			if len(batch) == 0 {
				return true
			}
			select {
			case out <- batch:
				batch = make([]model.RawLog, 0, size)
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case log, ok := <-in:
				if !ok {
					emit()
					return
				}
				batch = append(batch, log)
				if len(batch) >= size {
					if !emit() {
						return
					}
					ticker.Reset(flush)
				}
			case <-ticker.C:
				if !emit() {
					return
				}
			}
		}
	}()
	return out
}
