package infrastructure

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerScheduler_RunsUntilStopped(t *testing.T) {
	scheduler := NewTickerScheduler(time.Second)
	var runs atomic.Int32

	task := scheduler.Every(5*time.Millisecond, func(context.Context) { runs.Add(1) })

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)

	task.Stop()
	task.(*tickerTask).Wait()
	stoppedAt := runs.Load()

	assert.Never(t, func() bool { return runs.Load() != stoppedAt }, 30*time.Millisecond, 5*time.Millisecond)
}

func TestTickerScheduler_StopFromInsideJob(t *testing.T) {
	scheduler := NewTickerScheduler(0)
	taskCh := make(chan interface{ Stop() }, 1)
	var runs atomic.Int32

	task := scheduler.Every(time.Millisecond, func(context.Context) {
		runs.Add(1)
		(<-taskCh).Stop()
	})
	taskCh <- task

	task.(*tickerTask).Wait()
	assert.Equal(t, int32(1), runs.Load())
}

func TestTickerScheduler_JobContextHasDeadline(t *testing.T) {
	scheduler := NewTickerScheduler(time.Minute)
	deadlines := make(chan bool, 1)

	task := scheduler.Every(time.Millisecond, func(ctx context.Context) {
		_, ok := ctx.Deadline()
		select {
		case deadlines <- ok:
		default:
		}
	})
	defer func() {
		task.Stop()
		task.(*tickerTask).Wait()
	}()

	assert.True(t, <-deadlines)
}
