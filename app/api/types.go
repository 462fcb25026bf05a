package api

import (
	"github.com/lysyi3m/folio/app/config"
	"github.com/lysyi3m/folio/app/database"
	"github.com/lysyi3m/folio/app/tasks"
)

// Rebuilder queues background builds
type Rebuilder interface {
	Rebuild(reason string) error
	Refresh(reason string) error
}

var _ Rebuilder = (tasks.TaskSchedulerInterface)(nil)

type Handler struct {
	site      *config.SiteConfig
	cardRepo  database.CardRepositoryInterface
	rebuilder Rebuilder
	outputDir string
}
