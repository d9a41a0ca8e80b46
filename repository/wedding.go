package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"weddingpro-backend/models"
	"weddingpro-backend/services"
)

type WeddingRepository struct {
	DB *gorm.DB
}

func NewWeddingRepository(db *gorm.DB) *WeddingRepository {
	return &WeddingRepository{DB: db}
}

func (r *WeddingRepository) Create(ctx context.Context, w *models.Wedding) error {
	return translate(conn(ctx, r.DB).Omit(clause.Associations).Create(w).Error)
}

// Get loads a wedding with its customer and venue. Retired venues are
// still shown.
func (r *WeddingRepository) Get(ctx context.Context, id uuid.UUID) (*models.Wedding, error) {
	var w models.Wedding
	err := r.withRelations(conn(ctx, r.DB)).First(&w, "weddings.id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

func (r *WeddingRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Wedding, error) {
	var w models.Wedding
	if err := forUpdate(ctx, r.DB).First(&w, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

func (r *WeddingRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := conn(ctx, r.DB).Model(&models.Wedding{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return services.ErrRecordNotFound
	}
	return nil
}

func (r *WeddingRepository) ListBetween(ctx context.Context, from, to time.Time, exclude uuid.UUID) ([]models.Wedding, error) {
	q := r.withRelations(conn(ctx, r.DB)).
		Where("weddings.wedding_date >= ? AND weddings.wedding_date < ?", from.UTC(), to.UTC())
	if exclude != uuid.Nil {
		q = q.Where("weddings.id <> ?", exclude)
	}

	var weddings []models.Wedding
	err := q.Order("weddings.wedding_date, weddings.shift").Find(&weddings).Error
	return weddings, err
}

func (r *WeddingRepository) List(ctx context.Context, filter services.WeddingFilter) ([]models.Wedding, error) {
	q := r.withRelations(conn(ctx, r.DB))
	if filter.Phone != "" {
		q = q.Joins("JOIN customers ON customers.id = weddings.customer_id").
			Where("customers.phone = ?", filter.Phone)
	}
	if filter.From != nil {
		q = q.Where("weddings.wedding_date >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		q = q.Where("weddings.wedding_date < ?", filter.To.UTC())
	}
	if filter.Status != "" {
		q = q.Where("weddings.payment_status = ?", filter.Status)
	}

	var weddings []models.Wedding
	err := q.Order("weddings.wedding_date DESC").Find(&weddings).Error
	return weddings, err
}

func (r *WeddingRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Customer").
		Preload("Venue", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Venue.VenueType", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}
