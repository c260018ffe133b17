package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SweepFunc performs one sweep pass and reports how many records it touched.
type SweepFunc func(ctx context.Context) (int, error)

// SweepTask is a named maintenance job that runs on a fixed interval.
// Expiry sweeps, stale-payment cleanup and abandoned-upload cleanup all
// run through this.
type SweepTask struct {
	Name     string
	Interval time.Duration
	Run      SweepFunc
}

// SweeperConfig holds sweeper configuration
type SweeperConfig struct {
	Enabled     bool
	TaskTimeout time.Duration
}

// DefaultSweeperConfig returns default sweeper configuration
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Enabled:     true,
		TaskTimeout: 5 * time.Minute,
	}
}

// Sweeper runs background maintenance tasks. Each task gets its own
// ticker goroutine; a slow task delays only its own next run.
type Sweeper struct {
	config SweeperConfig
	logger *zap.Logger

	tasks     []SweepTask
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSweeper creates a new sweeper instance
func NewSweeper(config SweeperConfig, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		config: config,
		logger: logger,
	}
}

// AddTask registers a task. Must be called before Start.
func (s *Sweeper) AddTask(task SweepTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task)
}

// Start launches one goroutine per registered task
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	for _, task := range s.tasks {
		if task.Interval <= 0 || task.Run == nil {
			s.mu.Unlock()
			return ErrInvalidConfig
		}
	}
	s.isRunning = true
	tasks := s.tasks
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, task := range tasks {
		s.wg.Add(1)
		go s.loop(ctx, task)
	}

	s.logger.Info("Sweeper started",
		zap.Int("tasks", len(tasks)),
		zap.Duration("task_timeout", s.config.TaskTimeout),
	)

	return nil
}

// Stop gracefully stops the sweeper
func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Sweeper stop timed out")
		return ctx.Err()
	}
}

func (s *Sweeper) loop(ctx context.Context, task SweepTask) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	s.logger.Debug("Sweep task scheduled",
		zap.String("task", task.Name),
		zap.Duration("interval", task.Interval),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Sweep task stopping", zap.String("task", task.Name))
			return
		case <-ticker.C:
			s.runTask(ctx, task)
		}
	}
}

func (s *Sweeper) runTask(ctx context.Context, task SweepTask) {
	taskCtx := ctx
	if s.config.TaskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, s.config.TaskTimeout)
		defer cancel()
	}

	start := time.Now()
	swept, err := task.Run(taskCtx)
	if err != nil {
		s.logger.Error("Sweep task failed",
			zap.String("task", task.Name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}

	if swept > 0 {
		s.logger.Info("Sweep task completed",
			zap.String("task", task.Name),
			zap.Int("swept", swept),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
