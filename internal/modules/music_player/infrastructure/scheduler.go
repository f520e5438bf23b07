package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/Sebola3461/fortlev/internal/modules/music_player/application/ports"
)

// TickerScheduler runs jobs on time.Ticker goroutines.
type TickerScheduler struct {
	// timeout bounds a single run of a job.
	timeout time.Duration
}

// NewTickerScheduler creates a TickerScheduler whose job runs are cancelled
// after timeout.
func NewTickerScheduler(timeout time.Duration) *TickerScheduler {
	return &TickerScheduler{timeout: timeout}
}

// Every starts running fn every interval until the returned task is stopped.
func (s *TickerScheduler) Every(interval time.Duration, fn func(ctx context.Context)) ports.Task {
	ctx, cancel := context.WithCancel(context.Background())
	task := &tickerTask{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(task.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				s.run(ctx, fn)
			}
		}
	}()

	return task
}

func (s *TickerScheduler) run(ctx context.Context, fn func(ctx context.Context)) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	fn(ctx)
}

type tickerTask struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop cancels the task without waiting for a run in progress, which may be
// the caller itself.
func (t *tickerTask) Stop() {
	t.once.Do(t.cancel)
}

// Wait blocks until the task's goroutine has exited.
func (t *tickerTask) Wait() {
	<-t.done
}

var _ ports.Scheduler = (*TickerScheduler)(nil)
