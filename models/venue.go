package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VenueType is the pricing and capacity policy shared by a group of venues.
type VenueType struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TypeName       string          `gorm:"not null" json:"type_name"`
	MaxTableCount  int             `gorm:"not null" json:"max_table_count"`
	MinTablePrice  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"min_table_price"`
	DepositPercent decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"deposit_percent"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (v *VenueType) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}

// Venue is a bookable hall.
type Venue struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	VenueTypeID uuid.UUID `gorm:"type:uuid;index;not null" json:"venue_type_id"`
	VenueType   VenueType `gorm:"foreignKey:VenueTypeID" json:"venue_type"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (v *Venue) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
