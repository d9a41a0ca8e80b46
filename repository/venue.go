package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"weddingpro-backend/models"
	"weddingpro-backend/services"
)

type VenueRepository struct {
	DB *gorm.DB
}

func NewVenueRepository(db *gorm.DB) *VenueRepository {
	return &VenueRepository{DB: db}
}

// GetVenue loads a venue with its type. includeDeleted also returns
// soft-deleted venues and types, which booked weddings still point at.
func (r *VenueRepository) GetVenue(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Venue, error) {
	q := conn(ctx, r.DB)
	if includeDeleted {
		q = q.Unscoped().Preload("VenueType", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
	} else {
		q = q.Preload("VenueType")
	}

	var v models.Venue
	if err := q.First(&v, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	if !includeDeleted && v.VenueType.ID == uuid.Nil {
		// Live venue whose type was retired.
		return nil, services.ErrRecordNotFound
	}
	return &v, nil
}

func (r *VenueRepository) ListVenues(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	err := conn(ctx, r.DB).Preload("VenueType").Order("name").Find(&venues).Error
	return venues, err
}

func (r *VenueRepository) CreateVenue(ctx context.Context, v *models.Venue) error {
	return translate(conn(ctx, r.DB).Omit("VenueType").Create(v).Error)
}

func (r *VenueRepository) SaveVenue(ctx context.Context, v *models.Venue) error {
	return translate(conn(ctx, r.DB).Omit("VenueType").Save(v).Error)
}

func (r *VenueRepository) DeleteVenue(ctx context.Context, id uuid.UUID) error {
	res := conn(ctx, r.DB).Delete(&models.Venue{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return services.ErrRecordNotFound
	}
	return nil
}

func (r *VenueRepository) ListVenueTypes(ctx context.Context) ([]models.VenueType, error) {
	var types []models.VenueType
	err := conn(ctx, r.DB).Order("type_name").Find(&types).Error
	return types, err
}

func (r *VenueRepository) GetVenueType(ctx context.Context, id uuid.UUID) (*models.VenueType, error) {
	var t models.VenueType
	if err := conn(ctx, r.DB).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *VenueRepository) CreateVenueType(ctx context.Context, t *models.VenueType) error {
	return translate(conn(ctx, r.DB).Create(t).Error)
}

func (r *VenueRepository) SaveVenueType(ctx context.Context, t *models.VenueType) error {
	return translate(conn(ctx, r.DB).Save(t).Error)
}

func (r *VenueRepository) DeleteVenueType(ctx context.Context, id uuid.UUID) error {
	res := conn(ctx, r.DB).Delete(&models.VenueType{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return services.ErrRecordNotFound
	}
	return nil
}
