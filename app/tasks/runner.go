package tasks

import (
	"context"
	"log/slog"
	"sync"
)

// Runner executes a fixed batch of tasks over a bounded worker pool
// and returns when every task has finished. Failed tasks are retried
// up to their retry budget and then logged; a task failure is never
// fatal to the batch.
type Runner struct {
	workerCount int
}

func NewRunner(workerCount int) *Runner {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Runner{workerCount: workerCount}
}

func (r *Runner) Run(ctx context.Context, taskList []TaskInterface) {
	queue := make(chan TaskInterface)

	var wg sync.WaitGroup
	for i := 0; i < r.workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			r.worker(ctx, workerID, queue)
		}(i)
	}

	for _, task := range taskList {
		select {
		case queue <- task:
		case <-ctx.Done():
			slog.Warn("Run cancelled, remaining tasks skipped", "error", ctx.Err())
			close(queue)
			wg.Wait()
			return
		}
	}

	close(queue)
	wg.Wait()
}

func (r *Runner) worker(ctx context.Context, workerID int, queue <-chan TaskInterface) {
	for task := range queue {
		for {
			err := task.Execute(ctx)
			if err == nil {
				break
			}

			if ctx.Err() != nil || !task.CanRetry() {
				slog.Error("Task failed",
					"worker", workerID,
					"id", task.GetID(),
					"type", task.GetType(),
					"feed", task.GetFeedTitle(),
					"attempts", task.GetRetryCount()+1,
					"error", err)
				break
			}

			task.IncrementRetryCount()
			slog.Warn("Task retrying",
				"worker", workerID,
				"id", task.GetID(),
				"type", task.GetType(),
				"feed", task.GetFeedTitle(),
				"attempt", task.GetRetryCount(),
				"error", err)
		}
	}
}
