package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/saudapakka/saudapakka-mandate"
	"github.com/saudapakka/saudapakka-mandate/internal/domain"
)

type NotificationUsecase struct {
	repo      NotificationRepository
	publisher Publisher
	now       func() time.Time
}

func NewNotificationUsecase(repo NotificationRepository, publisher Publisher) *NotificationUsecase {
	return &NotificationUsecase{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// Notify stores a notification and pushes it to the recipient's realtime channel.
// A failed push is logged; the stored notification is still listed later.
func (uc *NotificationUsecase) Notify(ctx context.Context, recipientID, title, message, actionURL string) error {
	if recipientID == "" {
		return nil
	}

	n := domain.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		CreatedAt:   uc.now(),
	}
	if actionURL != "" {
		n.ActionURL = &actionURL
	}

	if err := uc.repo.Create(ctx, n); err != nil {
		return errors.Wrap(err, "NotificationUsecase.Notify: repo.Create failed")
	}

	if uc.publisher == nil {
		return nil
	}

	event := saudapakka.Event{
		Type:         domain.EventNotification,
		Notification: n.Wire(),
	}
	if err := uc.publisher.Publish(ctx, domain.UserChannel(recipientID), event); err != nil {
		slog.WarnContext(
			ctx, "failed to publish notification",
			slog.String("error", err.Error()),
			slog.String("recipient", recipientID),
			slog.String("module", "notification"),
		)
	}
	return nil
}

func (uc *NotificationUsecase) List(ctx context.Context, viewer domain.Viewer) ([]domain.Notification, error) {
	return uc.repo.List(ctx, viewer.UserID)
}

func (uc *NotificationUsecase) MarkAsRead(ctx context.Context, viewer domain.Viewer, id string) error {
	return uc.repo.MarkRead(ctx, viewer.UserID, id)
}

func (uc *NotificationUsecase) MarkAllAsRead(ctx context.Context, viewer domain.Viewer) (int64, error) {
	return uc.repo.MarkAllRead(ctx, viewer.UserID)
}
