package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FoodOrder is one food line of a wedding. ItemName and ItemPrice are
// snapshots taken when the order was composed.
type FoodOrder struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"-"`
	WeddingID uuid.UUID       `gorm:"type:uuid;index;not null" json:"-"`
	ItemID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"food_id"`
	ItemName  string          `gorm:"not null" json:"food_name"`
	ItemPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"food_price"`
	Count     int             `gorm:"not null" json:"count"`
}

func (o *FoodOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// ServiceOrder is one service line of a wedding, priced per event.
type ServiceOrder struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"-"`
	WeddingID uuid.UUID       `gorm:"type:uuid;index;not null" json:"-"`
	ItemID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"service_id"`
	ItemName  string          `gorm:"not null" json:"service_name"`
	ItemPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"service_price"`
	Count     int             `gorm:"not null" json:"count"`
}

func (o *ServiceOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}
