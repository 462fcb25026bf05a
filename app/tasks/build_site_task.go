package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

type BuildSiteTask struct {
	Task
	builder SiteBuilder
}

func NewBuildSiteTask(reason string, builder SiteBuilder) *BuildSiteTask {
	return &BuildSiteTask{
		Task:    NewTask(TaskTypeBuildSite, reason),
		builder: builder,
	}
}

func (t *BuildSiteTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("failed to build site: %w", err)
	}

	slog.Info("Task completed",
		"task", &t.Task,
		"duration", t.GetDuration(),
		"pages", result.Pages,
		"drift", len(result.Drift))

	return nil
}
