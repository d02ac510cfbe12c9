package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/saudapakka/saudapakka-mandate"
	"github.com/saudapakka/saudapakka-mandate/internal/domain"
	"github.com/saudapakka/saudapakka-mandate/internal/infra/database/models"
)

type MandateRepository struct {
	db *gorm.DB
}

func NewMandateRepository(db *gorm.DB) *MandateRepository {
	return &MandateRepository{db: db}
}

const openMandateCondition = "(status = ? AND (acceptance_deadline IS NULL OR acceptance_deadline > ?)) OR (status = ? AND (expiry_date IS NULL OR expiry_date > ?))"

func (r *MandateRepository) Create(ctx context.Context, m domain.Mandate) error {
	row := mandateToModel(m)
	at := m.CreatedAt.UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		err := tx.Model(&models.Mandate{}).
			Where("property_id = ?", m.PropertyID).
			Where(openMandateCondition, saudapakka.StatusPending, at, saudapakka.StatusActive, at).
			Count(&open).Error
		if err != nil {
			return err
		}
		if open > 0 {
			return domain.ErrOpenMandateExists
		}
		return tx.Omit("Property", "Seller", "Broker").Create(&row).Error
	})
}

func (r *MandateRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Property").
		Preload("Seller").
		Preload("Broker")
}

func (r *MandateRepository) Get(ctx context.Context, id string) (domain.MandateDetail, error) {
	var row models.Mandate
	err := r.preloaded(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MandateDetail{}, domain.NotFoundError{Resource: "mandate"}
		}
		return domain.MandateDetail{}, err
	}
	return detailFromModel(row), nil
}

func (r *MandateRepository) List(ctx context.Context, viewer domain.Viewer) ([]domain.MandateDetail, error) {
	q := r.preloaded(ctx).Order("created_at DESC").Order("id")
	if !viewer.IsStaff {
		q = q.Where("seller_id = ? OR broker_id = ?", viewer.UserID, viewer.UserID)
	}

	var rows []models.Mandate
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return detailsFromModels(rows), nil
}

func (r *MandateRepository) Update(ctx context.Context, m domain.Mandate, from saudapakka.MandateStatus) error {
	row := mandateToModel(m)
	res := r.db.WithContext(ctx).Model(&models.Mandate{}).
		Where("id = ? AND status = ?", m.ID, string(from)).
		Updates(map[string]any{
			"status":               row.Status,
			"seller_signature":     row.SellerSignature,
			"broker_signature":     row.BrokerSignature,
			"rejection_reason":     row.RejectionReason,
			"acceptance_deadline":  row.AcceptanceDeadline,
			"start_date":           row.StartDate,
			"expiry_date":          row.ExpiryDate,
			"end_date":             row.EndDate,
			"near_expiry_notified": row.NearExpiryNotified,
			"updated_at":           row.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Mandate{}).Where("id = ?", m.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.NotFoundError{Resource: "mandate"}
	}
	return domain.ErrStaleState
}

func (r *MandateRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Mandate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "mandate"}
	}
	return nil
}

func (r *MandateRepository) ListDue(ctx context.Context, now time.Time) ([]domain.MandateDetail, error) {
	now = now.UTC()
	var rows []models.Mandate
	err := r.preloaded(ctx).
		Where("(status = ? AND acceptance_deadline <= ?) OR (status = ? AND expiry_date <= ?)",
			saudapakka.StatusPending, now, saudapakka.StatusActive, now).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return detailsFromModels(rows), nil
}

func (r *MandateRepository) ListExpiringBefore(ctx context.Context, until time.Time) ([]domain.MandateDetail, error) {
	var rows []models.Mandate
	err := r.preloaded(ctx).
		Where("status = ? AND near_expiry_notified = ? AND expiry_date <= ?", saudapakka.StatusActive, false, until.UTC()).
		Order("expiry_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return detailsFromModels(rows), nil
}

func (r *MandateRepository) MarkNearExpiryNotified(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Mandate{}).
		Where("id = ? AND near_expiry_notified = ?", id, false).
		Update("near_expiry_notified", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func mandateToModel(m domain.Mandate) models.Mandate {
	return models.Mandate{
		ID:                 m.ID,
		PropertyID:         m.PropertyID,
		SellerID:           m.SellerID,
		BrokerID:           m.BrokerID,
		InitiatedBy:        string(m.InitiatedBy),
		DealType:           string(m.DealType),
		IsExclusive:        m.IsExclusive,
		CommissionRate:     m.CommissionRate,
		Status:             string(m.Status),
		SellerSignature:    m.SellerSignature,
		BrokerSignature:    m.BrokerSignature,
		RejectionReason:    m.RejectionReason,
		AcceptanceDeadline: utc(m.AcceptanceDeadline),
		StartDate:          utc(m.StartDate),
		ExpiryDate:         utc(m.ExpiryDate),
		EndDate:            utc(m.EndDate),
		RenewedFromID:      m.RenewedFromID,
		NearExpiryNotified: m.NearExpiryNotified,
		CreatedAt:          m.CreatedAt.UTC(),
		UpdatedAt:          m.UpdatedAt.UTC(),
	}
}

func mandateFromModel(row models.Mandate) domain.Mandate {
	return domain.Mandate{
		ID:                 row.ID,
		PropertyID:         row.PropertyID,
		SellerID:           row.SellerID,
		BrokerID:           row.BrokerID,
		InitiatedBy:        saudapakka.InitiatedBy(row.InitiatedBy),
		DealType:           saudapakka.DealType(row.DealType),
		IsExclusive:        row.IsExclusive,
		CommissionRate:     row.CommissionRate,
		Status:             saudapakka.MandateStatus(row.Status),
		SellerSignature:    row.SellerSignature,
		BrokerSignature:    row.BrokerSignature,
		RejectionReason:    row.RejectionReason,
		AcceptanceDeadline: utc(row.AcceptanceDeadline),
		StartDate:          utc(row.StartDate),
		ExpiryDate:         utc(row.ExpiryDate),
		EndDate:            utc(row.EndDate),
		RenewedFromID:      row.RenewedFromID,
		NearExpiryNotified: row.NearExpiryNotified,
		CreatedAt:          row.CreatedAt.UTC(),
		UpdatedAt:          row.UpdatedAt.UTC(),
	}
}

func detailFromModel(row models.Mandate) domain.MandateDetail {
	detail := domain.MandateDetail{
		Mandate:       mandateFromModel(row),
		PropertyTitle: row.Property.Title,
	}
	if row.Seller.ID != "" {
		name := row.Seller.FullName
		detail.SellerName = &name
	}
	if row.Broker != nil && row.Broker.ID != "" {
		name := row.Broker.FullName
		detail.BrokerName = &name
	}
	return detail
}

func detailsFromModels(rows []models.Mandate) []domain.MandateDetail {
	details := make([]domain.MandateDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, detailFromModel(row))
	}
	return details
}
