package ports

import (
	"context"
	"time"
)

// Task is a scheduled job that can be cancelled.
type Task interface {
	// Stop cancels the task. No run starts after Stop returns.
	Stop()
}

// Scheduler runs jobs periodically.
type Scheduler interface {
	Every(interval time.Duration, fn func(ctx context.Context)) Task
}
