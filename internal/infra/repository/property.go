package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/saudapakka/saudapakka-mandate/internal/domain"
	"github.com/saudapakka/saudapakka-mandate/internal/infra/database/models"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Get(ctx context.Context, id string) (domain.Property, error) {
	var row models.Property
	err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Property{}, domain.NotFoundError{Resource: "property"}
		}
		return domain.Property{}, err
	}
	return propertyFromModel(row), nil
}

func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error) {
	var rows []models.Property
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]domain.Property, 0, len(rows))
	for _, row := range rows {
		result = append(result, propertyFromModel(row))
	}
	return result, nil
}

// Upsert is used by seeding and tests; listings are otherwise owned by the catalogue service.
func (r *PropertyRepository) Upsert(ctx context.Context, p domain.Property) error {
	row := models.Property{
		ID:            p.ID,
		Title:         p.Title,
		ProjectName:   p.ProjectName,
		OwnerID:       p.OwnerID,
		AddressLine:   p.AddressLine,
		Locality:      p.Locality,
		City:          p.City,
		State:         p.State,
		Pincode:       p.Pincode,
		PropertyType:  p.PropertyType,
		CarpetArea:    p.CarpetArea,
		SpecificFloor: p.SpecificFloor,
		TotalPrice:    p.TotalPrice,
	}
	return r.db.WithContext(ctx).Omit("Owner").Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "project_name", "owner_id", "address_line", "locality", "city",
			"state", "pincode", "property_type", "carpet_area", "specific_floor", "total_price",
		}),
	}).Create(&row).Error
}

func propertyFromModel(row models.Property) domain.Property {
	return domain.Property{
		ID:            row.ID,
		Title:         row.Title,
		ProjectName:   row.ProjectName,
		OwnerID:       row.OwnerID,
		OwnerName:     row.Owner.FullName,
		AddressLine:   row.AddressLine,
		Locality:      row.Locality,
		City:          row.City,
		State:         row.State,
		Pincode:       row.Pincode,
		PropertyType:  row.PropertyType,
		CarpetArea:    row.CarpetArea,
		SpecificFloor: row.SpecificFloor,
		TotalPrice:    row.TotalPrice,
	}
}
