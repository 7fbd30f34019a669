package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeFetchFeed TaskType = "fetch_feed"
)

const (
	DefaultMaxRetries = 3
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetFeedTitle() string
	GetRetryCount() int
	IncrementRetryCount()
	CanRetry() bool
	Start()
	GetDuration() time.Duration
}

type Task struct {
	ID         string
	Type       TaskType
	FeedTitle  string
	RetryCount int
	MaxRetries int
	StartedAt  *time.Time
}

func NewTask(taskType TaskType, feedTitle string) Task {
	return Task{
		ID:         uuid.NewString(),
		Type:       taskType,
		FeedTitle:  feedTitle,
		RetryCount: 0,
		MaxRetries: DefaultMaxRetries,
	}
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetFeedTitle() string {
	return t.FeedTitle
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

func (t *Task) IncrementRetryCount() {
	t.RetryCount++
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}
