package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"weddingpro-backend/models"
)

// BillRepository is append-only: bills are created and read, never updated.
type BillRepository struct {
	DB *gorm.DB
}

func NewBillRepository(db *gorm.DB) *BillRepository {
	return &BillRepository{DB: db}
}

const newestFirst = "created_at DESC, id DESC"

func (r *BillRepository) Append(ctx context.Context, b *models.Bill) error {
	return translate(conn(ctx, r.DB).Create(b).Error)
}

func (r *BillRepository) ListByWedding(ctx context.Context, weddingID uuid.UUID) ([]models.Bill, error) {
	var bills []models.Bill
	err := conn(ctx, r.DB).Where("wedding_id = ?", weddingID).Order(newestFirst).Find(&bills).Error
	return bills, err
}

// Latest returns nil without error when the wedding has no bills yet.
func (r *BillRepository) Latest(ctx context.Context, weddingID uuid.UUID) (*models.Bill, error) {
	var b models.Bill
	err := conn(ctx, r.DB).Where("wedding_id = ?", weddingID).Order(newestFirst).Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// TotalDeposited sums every payment made for the wedding.
func (r *BillRepository) TotalDeposited(ctx context.Context, weddingID uuid.UUID) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := conn(ctx, r.DB).Model(&models.Bill{}).
		Where("wedding_id = ?", weddingID).
		Pluck("deposit_amount", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}
