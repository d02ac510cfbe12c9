package scheduler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/saudapakka/saudapakka-mandate/internal/domain"
)

// Sweeper expires lapsed mandates and sends near-expiry warnings.
type Sweeper interface {
	SweepExpired(ctx context.Context) (domain.SweepResult, error)
}

// Scheduler runs the expiry sweep on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	spec    string

	mu        sync.Mutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewScheduler(sweeper Sweeper, spec string) *Scheduler {
	if spec == "" {
		spec = "@hourly"
	}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sweeper: sweeper,
		spec:    spec,
	}
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	ctx := s.ctx

	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		s.cancel()
		return err
	}

	s.cron.Start()
	s.isRunning = true
	slog.Info("scheduler started", slog.String("spec", s.spec), slog.String("module", "scheduler"))
	return nil
}

// Stop cancels a sweep in flight and waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.cancel()
	<-s.cron.Stop().Done()
	s.isRunning = false
	slog.Info("scheduler stopped", slog.String("module", "scheduler"))
}

func (s *Scheduler) runSweep(ctx context.Context) {
	res, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		slog.ErrorContext(
			ctx, "expiry sweep failed",
			slog.String("error", err.Error()),
			slog.String("module", "scheduler"),
		)
		return
	}
	slog.InfoContext(
		ctx, "expiry sweep completed",
		slog.Int("pendingExpired", res.PendingExpired),
		slog.Int("activeExpired", res.ActiveExpired),
		slog.Int("warnings", res.Warnings),
		slog.String("module", "scheduler"),
	)
}
