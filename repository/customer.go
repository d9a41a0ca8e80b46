package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"weddingpro-backend/models"
)

type CustomerRepository struct {
	DB *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var c models.Customer
	if err := conn(ctx, r.DB).Where("phone = ?", phone).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, name, phone string) (*models.Customer, error) {
	c := &models.Customer{Name: name, Phone: phone}
	if err := conn(ctx, r.DB).Create(c).Error; err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (r *CustomerRepository) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	err := conn(ctx, r.DB).
		Preload("Weddings", func(db *gorm.DB) *gorm.DB { return db.Order("wedding_date DESC") }).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// ListCustomers pages through customers, optionally filtered by a name or
// phone fragment.
func (r *CustomerRepository) ListCustomers(ctx context.Context, search string, page, limit int) ([]models.Customer, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	q := conn(ctx, r.DB).Model(&models.Customer{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR phone LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var customers []models.Customer
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&customers).Error
	return customers, total, err
}

func (r *CustomerRepository) SaveCustomer(ctx context.Context, c *models.Customer) error {
	return translate(conn(ctx, r.DB).Omit("Weddings").Save(c).Error)
}
