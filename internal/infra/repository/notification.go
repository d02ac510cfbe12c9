package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/saudapakka/saudapakka-mandate/internal/domain"
	"github.com/saudapakka/saudapakka-mandate/internal/infra/database/models"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n domain.Notification) error {
	row := models.Notification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Title:       n.Title,
		Message:     n.Message,
		ActionURL:   n.ActionURL,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *NotificationRepository) List(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	var rows []models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(100).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.Notification{
			ID:          row.ID,
			RecipientID: row.RecipientID,
			Title:       row.Title,
			Message:     row.Message,
			ActionURL:   row.ActionURL,
			IsRead:      row.IsRead,
			CreatedAt:   row.CreatedAt,
		})
	}
	return result, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID, id string) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "notification"}
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
