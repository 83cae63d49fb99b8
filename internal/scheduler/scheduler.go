package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is a unit of background work run on a fixed interval
type Task interface {
	Run(ctx context.Context) error
	Interval() time.Duration // <= 0 runs the task once
	Name() string
}

// Scheduler runs tasks in their own goroutines until stopped
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	tasks  []Task
	wg     sync.WaitGroup
}

// New creates a scheduler whose tasks stop when ctx is cancelled or Stop is called
func New(ctx context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(ctx)
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		tasks:  make([]Task, 0),
	}
}

// AddTask registers a task; it must be called before Start
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Start begins running all registered tasks
func (s *Scheduler) Start() {
	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.runTask(task)
	}
	slog.Info("Task scheduler started", "task_count", len(s.tasks))
}

// Stop cancels all tasks and waits for in-flight runs to return
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	slog.Info("Task scheduler stopped")
}

func (s *Scheduler) runTask(task Task) {
	defer s.wg.Done()

	// Run immediately on start
	s.runOnce(task)

	if task.Interval() <= 0 {
		return
	}

	ticker := time.NewTicker(task.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(task)
		}
	}
}

func (s *Scheduler) runOnce(task Task) {
	if s.ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := task.Run(s.ctx); err != nil {
		slog.Error("Error running task", "task", task.Name(), "error", err)
		return
	}
	slog.Debug("Task completed", "task", task.Name(), "duration", time.Since(start))
}
