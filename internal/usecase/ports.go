package usecase

import (
	"context"
	"time"

	"github.com/saudapakka/saudapakka-mandate"
	"github.com/saudapakka/saudapakka-mandate/internal/domain"
)

// MandateRepository defines persistence for mandates.
type MandateRepository interface {
	// Create stores a new mandate. It fails with domain.ErrOpenMandateExists when the
	// property already has a pending or active mandate that has not lapsed at m.CreatedAt.
	Create(ctx context.Context, m domain.Mandate) error
	Get(ctx context.Context, id string) (domain.MandateDetail, error)
	// List returns every mandate for staff, otherwise those where the viewer is seller or broker.
	List(ctx context.Context, viewer domain.Viewer) ([]domain.MandateDetail, error)
	// Update writes m only if the stored status is still from; otherwise domain.ErrStaleState.
	Update(ctx context.Context, m domain.Mandate, from saudapakka.MandateStatus) error
	Delete(ctx context.Context, id string) error
	// ListDue returns pending mandates past their acceptance deadline and active ones past expiry.
	ListDue(ctx context.Context, now time.Time) ([]domain.MandateDetail, error)
	// ListExpiringBefore returns active, not yet warned mandates expiring before until.
	ListExpiringBefore(ctx context.Context, until time.Time) ([]domain.MandateDetail, error)
	// MarkNearExpiryNotified sets the warning latch; false when it was already set.
	MarkNearExpiryNotified(ctx context.Context, id string) (bool, error)
}

// PropertyRepository looks up listings owned by the marketplace.
type PropertyRepository interface {
	Get(ctx context.Context, id string) (domain.Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error)
}

// UserRepository defines lookup for marketplace accounts.
type UserRepository interface {
	Get(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	ListStaff(ctx context.Context) ([]domain.User, error)
}

// BrokerDirectory resolves active brokers.
type BrokerDirectory interface {
	FindByMobile(ctx context.Context, mobile string) (domain.BrokerProfile, error)
	Get(ctx context.Context, id string) (domain.BrokerProfile, error)
}

// SignatureStore keeps write-once signature images and returns their reference.
type SignatureStore interface {
	Put(ctx context.Context, png []byte) (string, error)
	Remove(ctx context.Context, ref string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n domain.Notification) error
	List(ctx context.Context, recipientID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, recipientID, id string) error
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}

// Publisher fans events out to a user's realtime channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, event saudapakka.Event) error
}

// Metrics records transition and sweep outcomes.
type Metrics interface {
	Transition(event string, err error)
	Sweep(res domain.SweepResult)
}

type nopMetrics struct{}

func (nopMetrics) Transition(string, error) {}
func (nopMetrics) Sweep(domain.SweepResult) {}
