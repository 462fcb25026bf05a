package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

type TaskType string

const (
	TaskTypeBuildSite      TaskType = "build_site"
	TaskTypeRefreshSources TaskType = "refresh_sources"
)

const (
	DefaultMaxRetries = 3
)

// ReasonManual is recorded when a rebuild is queued without saying why.
const ReasonManual = "manual"

type TaskInterface interface {
	slog.LogValuer
	fmt.Stringer
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetReason() string
	GetRetryCount() int
	GetMaxRetries() int
	IncrementRetryCount()
	CanRetry() bool
	Start()
	GetDuration() time.Duration
}

// Task carries what every rebuild shares: why it was queued and how many
// times it has been retried.
type Task struct {
	ID         string
	Type       TaskType
	Reason     string
	RetryCount int
	MaxRetries int
	StartedAt  *time.Time
}

func NewTask(taskType TaskType, reason string) Task {
	if reason == "" {
		reason = ReasonManual
	}

	return Task{
		ID:         fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Intn(10000)),
		Type:       taskType,
		Reason:     reason,
		MaxRetries: DefaultMaxRetries,
	}
}

func (t *Task) GetID() string { return t.ID }
func (t *Task) GetType() TaskType { return t.Type }
func (t *Task) GetReason() string { return t.Reason }
func (t *Task) GetRetryCount() int { return t.RetryCount }
func (t *Task) GetMaxRetries() int { return t.MaxRetries }
func (t *Task) IncrementRetryCount() { t.RetryCount++ }
func (t *Task) CanRetry() bool { return t.RetryCount < t.MaxRetries }

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

// String reads like "build_site (watch)", or "build_site (watch, retry 2/3)"
// once the task has failed.
func (t *Task) String() string {
	if t.RetryCount == 0 {
		return fmt.Sprintf("%s (%s)", t.Type, t.Reason)
	}
	return fmt.Sprintf("%s (%s, retry %d/%d)", t.Type, t.Reason, t.RetryCount, t.MaxRetries)
}

// LogValue groups the task's identity so scheduler logs can pass it as a
// single "task" attribute.
func (t *Task) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", t.ID),
		slog.String("type", string(t.Type)),
		slog.String("reason", t.Reason),
		slog.Int("retry", t.RetryCount),
	)
}
