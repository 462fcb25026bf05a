package tasks

import (
	"context"

	"github.com/lysyi3m/folio/app/build"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the serve command and the preview server to queue rebuilds.
// Example usage:
//
//	scheduler := NewScheduler(builder, cache)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewBuildSiteTask("content changed", builder))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	Rebuild(reason string) error
	Refresh(reason string) error
}

// SiteBuilder is the part of build.Builder the tasks drive
type SiteBuilder interface {
	Build(ctx context.Context) (*build.Result, error)
}

// CacheExpirer marks cached remote content as stale
type CacheExpirer interface {
	Expire()
}

var _ SiteBuilder = (*build.Builder)(nil)
