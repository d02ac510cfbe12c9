package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/saudapakka/saudapakka-mandate/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) SweepExpired(ctx context.Context) (domain.SweepResult, error) {
	c.calls.Add(1)
	return domain.SweepResult{PendingExpired: 1}, nil
}

func TestSchedulerRunsAndStops(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewScheduler(sweeper, "@every 1s")

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// second start is a no-op
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for sweeper.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	s.Stop()
	s.Stop()

	if sweeper.calls.Load() == 0 {
		t.Fatal("expected the sweep to run at least once")
	}
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(&countingSweeper{}, "not a schedule")
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected an error for an invalid spec")
	}
}
