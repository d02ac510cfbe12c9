package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/saudapakka/saudapakka-mandate/internal/domain"
	"github.com/saudapakka/saudapakka-mandate/internal/infra/database/models"
)

// BrokerRepository resolves active brokers from the account table.
type BrokerRepository struct {
	db *gorm.DB
}

func NewBrokerRepository(db *gorm.DB) *BrokerRepository {
	return &BrokerRepository{db: db}
}

func (r *BrokerRepository) FindByMobile(ctx context.Context, mobile string) (domain.BrokerProfile, error) {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return domain.BrokerProfile{}, domain.NotFoundError{Resource: "broker"}
	}
	return r.find(ctx, "phone_number = ?", mobile)
}

func (r *BrokerRepository) Get(ctx context.Context, id string) (domain.BrokerProfile, error) {
	return r.find(ctx, "id = ?", id)
}

func (r *BrokerRepository) find(ctx context.Context, cond string, arg string) (domain.BrokerProfile, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where(cond, arg).
		Where("is_active_broker = ?", true).
		Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BrokerProfile{}, domain.NotFoundError{Resource: "broker"}
		}
		return domain.BrokerProfile{}, err
	}
	return domain.BrokerProfile{
		ID:           user.ID,
		FullName:     user.FullName,
		MobileNumber: user.PhoneNumber,
		AvatarURL:    user.AvatarURL,
	}, nil
}
