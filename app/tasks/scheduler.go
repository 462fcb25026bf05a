package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/folio/app/cfg"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	builder     SiteBuilder
	cache       CacheExpirer
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(builder SiteBuilder, cache CacheExpirer) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
	}

	return &Scheduler{
		builder:     builder,
		cache:       cache,
		interval:    cfg.RefreshIntervalDuration(),
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if err := s.Refresh("interval"); err != nil {
					slog.Warn("Failed to enqueue RefreshSourcesTask", "error", err)
				}
			}
		}
	}()

	slog.Debug("Scheduler started", "workers", s.workerCount, "refresh_interval", s.interval)
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// Rebuild queues a site build
func (s *Scheduler) Rebuild(reason string) error {
	return s.EnqueueTask(NewBuildSiteTask(reason, s.builder))
}

// Refresh queues a rebuild that refetches remote sources first
func (s *Scheduler) Refresh(reason string) error {
	return s.EnqueueTask(NewRefreshSourcesTask(reason, s.builder, s.cache))
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "task", task, "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := s.retryDelay(task.GetRetryCount())

			slog.Warn("Task retry scheduled", "task", task, "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "task", task)
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "task", task, "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "task", task, "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}

func (s *Scheduler) retryDelay(retryCount int) time.Duration {
	delay := time.Duration(1<<uint(retryCount-1)) * time.Second
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}
	return delay
}
