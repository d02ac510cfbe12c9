package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/saudapakka/saudapakka-mandate"
)

// DefaultPollInterval is used when a poller is built with a non-positive interval.
const DefaultPollInterval = 30 * time.Second

// Poller runs a task at a fixed interval until stopped. The task also runs once at Start.
type Poller struct {
	interval time.Duration
	task     func(context.Context) error

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(interval time.Duration, task func(context.Context) error) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{interval: interval, task: task}
}

// Start is a no-op when the poller is already running.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(ctx, p.done)
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.run(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.run(ctx)
		}
	}
}

func (p *Poller) run(ctx context.Context) {
	if err := p.task(ctx); err != nil && ctx.Err() == nil {
		slog.WarnContext(ctx, "poll failed",
			slog.String("module", "poller"),
			slog.String("error", err.Error()),
		)
	}
}

// Stop cancels the task and waits for the goroutine to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// NotificationPoller keeps the latest notification list and unread count.
type NotificationPoller struct {
	*Poller

	mu            sync.RWMutex
	notifications []saudapakka.Notification
}

func NewNotificationPoller(api *Client, interval time.Duration) *NotificationPoller {
	np := &NotificationPoller{}
	np.Poller = NewPoller(interval, func(ctx context.Context) error {
		list, err := api.Notifications(ctx)
		if err != nil {
			return err
		}
		np.mu.Lock()
		np.notifications = list
		np.mu.Unlock()
		return nil
	})
	return np
}

func (np *NotificationPoller) Notifications() []saudapakka.Notification {
	np.mu.RLock()
	defer np.mu.RUnlock()
	return append([]saudapakka.Notification(nil), np.notifications...)
}

func (np *NotificationPoller) Unread() int {
	np.mu.RLock()
	defer np.mu.RUnlock()
	n := 0
	for _, item := range np.notifications {
		if !item.IsRead {
			n++
		}
	}
	return n
}
