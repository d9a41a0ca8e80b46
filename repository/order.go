package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"weddingpro-backend/models"
)

// OrderRepository stores the food and service lines of weddings.
type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) ClearFood(ctx context.Context, weddingID uuid.UUID) error {
	return conn(ctx, r.DB).Where("wedding_id = ?", weddingID).Delete(&models.FoodOrder{}).Error
}

func (r *OrderRepository) ClearServices(ctx context.Context, weddingID uuid.UUID) error {
	return conn(ctx, r.DB).Where("wedding_id = ?", weddingID).Delete(&models.ServiceOrder{}).Error
}

func (r *OrderRepository) AddFood(ctx context.Context, line *models.FoodOrder) error {
	return conn(ctx, r.DB).Create(line).Error
}

func (r *OrderRepository) AddService(ctx context.Context, line *models.ServiceOrder) error {
	return conn(ctx, r.DB).Create(line).Error
}

func (r *OrderRepository) FoodLines(ctx context.Context, weddingID uuid.UUID) ([]models.FoodOrder, error) {
	var lines []models.FoodOrder
	err := conn(ctx, r.DB).Where("wedding_id = ?", weddingID).Order("item_name").Find(&lines).Error
	return lines, err
}

func (r *OrderRepository) ServiceLines(ctx context.Context, weddingID uuid.UUID) ([]models.ServiceOrder, error) {
	var lines []models.ServiceOrder
	err := conn(ctx, r.DB).Where("wedding_id = ?", weddingID).Order("item_name").Find(&lines).Error
	return lines, err
}
