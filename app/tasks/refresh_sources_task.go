package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

// RefreshSourcesTask expires cached remote content and rebuilds, so feed and
// CMS collections pick up upstream changes
type RefreshSourcesTask struct {
	Task
	builder SiteBuilder
	cache   CacheExpirer
}

func NewRefreshSourcesTask(reason string, builder SiteBuilder, cache CacheExpirer) *RefreshSourcesTask {
	return &RefreshSourcesTask{
		Task:    NewTask(TaskTypeRefreshSources, reason),
		builder: builder,
		cache:   cache,
	}
}

func (t *RefreshSourcesTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if t.cache != nil {
		t.cache.Expire()
	}

	result, err := t.builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("failed to rebuild after refresh: %w", err)
	}

	slog.Info("Task completed",
		"task", &t.Task,
		"duration", t.GetDuration(),
		"pages", result.Pages)

	return nil
}
