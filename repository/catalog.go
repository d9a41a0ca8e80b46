package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"weddingpro-backend/models"
	"weddingpro-backend/services"
)

// CatalogRepository stores foods and services and serves them to the
// booking engine as orderable items.
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

// GetFoodItem returns an active food. Inside a transaction the row stays
// locked so concurrent stock commits serialize.
func (r *CatalogRepository) GetFoodItem(ctx context.Context, id uuid.UUID) (*services.CatalogItem, error) {
	var f models.Food
	if err := forUpdate(ctx, r.DB).Where("id = ? AND is_active = ?", id, true).First(&f).Error; err != nil {
		return nil, translate(err)
	}
	return &services.CatalogItem{ID: f.ID, Name: f.Name, Price: f.Price, Inventory: f.Inventory}, nil
}

func (r *CatalogRepository) GetServiceItem(ctx context.Context, id uuid.UUID) (*services.CatalogItem, error) {
	var s models.Service
	if err := forUpdate(ctx, r.DB).Where("id = ? AND is_active = ?", id, true).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &services.CatalogItem{ID: s.ID, Name: s.Name, Price: s.Price, Inventory: s.Inventory}, nil
}

func (r *CatalogRepository) DecrementFoodInventory(ctx context.Context, id uuid.UUID, newLevel int) error {
	res := conn(ctx, r.DB).Model(&models.Food{}).Where("id = ?", id).Update("inventory", newLevel)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return services.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) ListFoods(ctx context.Context, activeOnly bool) ([]models.Food, error) {
	var foods []models.Food
	q := conn(ctx, r.DB).Order("name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&foods).Error
	return foods, err
}

func (r *CatalogRepository) GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	var f models.Food
	if err := conn(ctx, r.DB).First(&f, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *CatalogRepository) CreateFood(ctx context.Context, f *models.Food) error {
	return translate(conn(ctx, r.DB).Create(f).Error)
}

func (r *CatalogRepository) SaveFood(ctx context.Context, f *models.Food) error {
	return translate(conn(ctx, r.DB).Save(f).Error)
}

// DeleteFood soft-deletes; composed orders keep their price snapshots.
func (r *CatalogRepository) DeleteFood(ctx context.Context, id uuid.UUID) error {
	res := conn(ctx, r.DB).Delete(&models.Food{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return services.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	var list []models.Service
	q := conn(ctx, r.DB).Order("name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *CatalogRepository) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var s models.Service
	if err := conn(ctx, r.DB).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *CatalogRepository) CreateService(ctx context.Context, s *models.Service) error {
	return translate(conn(ctx, r.DB).Create(s).Error)
}

func (r *CatalogRepository) SaveService(ctx context.Context, s *models.Service) error {
	return translate(conn(ctx, r.DB).Save(s).Error)
}

func (r *CatalogRepository) DeleteService(ctx context.Context, id uuid.UUID) error {
	res := conn(ctx, r.DB).Delete(&models.Service{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return services.ErrRecordNotFound
	}
	return nil
}
