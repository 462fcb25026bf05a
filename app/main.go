package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/folio/app/api"
	"github.com/lysyi3m/folio/app/browse"
	"github.com/lysyi3m/folio/app/build"
	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/cfg"
	"github.com/lysyi3m/folio/app/config"
	"github.com/lysyi3m/folio/app/content"
	"github.com/lysyi3m/folio/app/database"
	"github.com/lysyi3m/folio/app/listing"
	"github.com/lysyi3m/folio/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting Folio", "version", appCfg.Version, "command", appCfg.Command)

	if err := run(appCfg); err != nil {
		slog.Error("Folio failed", "command", appCfg.Command, "error", err)
		os.Exit(1)
	}
}

func run(appCfg *cfg.Cfg) error {
	site, err := config.NewLoader(appCfg.SiteConfig).Load()
	if err != nil {
		return err
	}

	db, err := database.Open(appCfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Debug("Database migrations completed", "version", version, "dirty", dirty)

	cardRepo := database.NewCardRepository(db)
	cache := content.NewCache[[]card.Card](appCfg.CacheTTLDuration())

	builder, err := build.NewBuilder(site, build.Options{
		OutputDir: appCfg.OutputDir,
		StaticDir: appCfg.StaticDir,
		BaseURL:   appCfg.BaseUrl,
		Repo:      cardRepo,
		Deps: content.Deps{
			ContentDir: appCfg.ContentDir,
			HTTPClient: &http.Client{Timeout: 30 * time.Second},
			UserAgent:  appCfg.UserAgent,
			CMSURL:     appCfg.CMSURL,
			CMSBucket:  appCfg.CMSBucket,
			CMSReadKey: appCfg.CMSReadKey,
			Cache:      cache,
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch appCfg.Command {
	case cfg.CommandSync:
		collections, err := builder.Sync(ctx)
		if err != nil {
			return err
		}
		for name, cards := range collections {
			slog.Info("Collection synced", "collection", name, "cards", len(cards))
		}
		return nil
	case cfg.CommandBrowse:
		return browseCollection(ctx, builder, appCfg.Collection)
	case cfg.CommandServe:
		return serve(ctx, appCfg, builder, cardRepo, cache)
	default:
		_, err := builder.Build(ctx)
		return err
	}
}

func browseCollection(ctx context.Context, builder *build.Builder, name string) error {
	site := builder.Site()
	if name == "" && len(site.Collections) > 0 {
		name = site.Collections[0].Name
	}

	coll := site.Collection(name)
	if coll == nil {
		return fmt.Errorf("unknown collection %q", name)
	}

	cards, err := builder.LoadCollection(ctx, name)
	if err != nil {
		return err
	}

	return browse.Run(ctx, listing.NewController(coll.Variant(), cards))
}

func serve(ctx context.Context, appCfg *cfg.Cfg, builder *build.Builder,
	cardRepo *database.CardRepository, cache *content.Cache[[]card.Card]) error {
	if _, err := builder.Build(ctx); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "refresh_interval", appCfg.RefreshIntervalDuration())
	scheduler := tasks.NewScheduler(builder, cache)
	scheduler.Start()

	watcher, err := watch(ctx, scheduler, appCfg.ContentDir, appCfg.StaticDir)
	if err != nil {
		slog.Warn("File watching disabled", "error", err)
	}

	// The watcher queues rebuilds, so it must be closed before the
	// scheduler closes its queue.
	defer func() {
		if watcher != nil {
			if err := watcher.Close(); err != nil {
				slog.Warn("Failed to close watcher", "error", err)
			}
		}
		scheduler.Stop()
		slog.Info("Background scheduler stopped")
	}()

	handler := api.NewHandler(builder.Site(), cardRepo, scheduler, appCfg.OutputDir)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", appCfg.Port, "url", "http://localhost:"+appCfg.Port+"/")
		if appCfg.APIAccessKey == "" {
			slog.Info("API endpoints disabled", "reason", "API_ACCESS_KEY not set")
		}

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	slog.Info("Folio preview server started, press Ctrl+C to shutdown")

	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return nil
}
