package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type BillKind string

const (
	BillDeposit BillKind = "deposit"
	BillFullPay BillKind = "full_pay"
	BillEdit    BillKind = "edit"
)

// Bill is one entry of a wedding's append-only payment trail. Rows are never
// updated; the most recent one carries the current balance.
type Bill struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BillNumber string    `gorm:"uniqueIndex;not null" json:"bill_number"`
	WeddingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"wedding_id"`
	Kind       BillKind  `gorm:"type:varchar(16);not null" json:"kind"`

	PaymentDate       time.Time       `gorm:"not null" json:"payment_date"`
	ServiceTotalPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"service_total_price"`
	FoodTotalPrice    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"food_total_price"`
	TotalPrice        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_price"`
	DepositRequire    decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"deposit_require"`
	DepositAmount     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"deposit_amount"`
	RemainAmount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"remain_amount"`
	ExtraFee          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"extra_fee"`
	// Lines is the food and service order the totals were priced from.
	Lines datatypes.JSON `json:"lines,omitempty"`
	// StockCommitted marks a settling bill whose food Lines were taken from stock.
	StockCommitted bool `gorm:"not null;default:false" json:"stock_committed"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// Settled reports whether the bill leaves nothing outstanding.
func (b *Bill) Settled() bool {
	return !b.RemainAmount.IsPositive()
}
