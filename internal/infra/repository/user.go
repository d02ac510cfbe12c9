package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/saudapakka/saudapakka-mandate/internal/domain"
	"github.com/saudapakka/saudapakka-mandate/internal/infra/database/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Get(ctx context.Context, id string) (domain.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.NotFoundError{Resource: "user"}
		}
		return domain.User{}, err
	}
	return userFromModel(user), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.NotFoundError{Resource: "user"}
		}
		return domain.User{}, err
	}
	return userFromModel(user), nil
}

func (r *UserRepository) ListStaff(ctx context.Context) ([]domain.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("is_staff = ?", true).Order("id").Find(&users).Error
	if err != nil {
		return nil, err
	}
	result := make([]domain.User, 0, len(users))
	for _, u := range users {
		result = append(result, userFromModel(u))
	}
	return result, nil
}

// Upsert inserts or refreshes an account, keyed by id.
func (r *UserRepository) Upsert(ctx context.Context, u domain.User) error {
	row := models.User{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          strings.ToLower(strings.TrimSpace(u.Email)),
		PhoneNumber:    u.PhoneNumber,
		PasswordHash:   u.PasswordHash,
		AvatarURL:      u.AvatarURL,
		IsActiveSeller: u.IsActiveSeller,
		IsActiveBroker: u.IsActiveBroker,
		IsStaff:        u.IsStaff,
		CreatedAt:      u.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"full_name", "email", "phone_number", "password_hash", "avatar_url",
			"is_active_seller", "is_active_broker", "is_staff",
		}),
	}).Create(&row).Error
}

func userFromModel(u models.User) domain.User {
	return domain.User{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          u.Email,
		PhoneNumber:    u.PhoneNumber,
		PasswordHash:   u.PasswordHash,
		AvatarURL:      u.AvatarURL,
		IsActiveSeller: u.IsActiveSeller,
		IsActiveBroker: u.IsActiveBroker,
		IsStaff:        u.IsStaff,
		CreatedAt:      u.CreatedAt,
	}
}
