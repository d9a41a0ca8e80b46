package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shift is a bookable time segment within a day.
type Shift string

const (
	ShiftMorning Shift = "MORNING"
	ShiftEvening Shift = "EVENING"
)

func (s Shift) Valid() bool {
	return s == ShiftMorning || s == ShiftEvening
}

// PaymentStatus is derived from the latest bill of a wedding.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "pending"
	StatusDeposit PaymentStatus = "deposit"
	StatusPaid    PaymentStatus = "paid"
)

type Wedding struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Groom      string    `gorm:"not null" json:"groom"`
	Bride      string    `gorm:"not null" json:"bride"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	WeddingDate time.Time `gorm:"not null;index" json:"wedding_date"`
	// BookingDay is the venue-local calendar day of WeddingDate (YYYY-MM-DD).
	BookingDay string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_wedding_slot,priority:3" json:"booking_day"`
	Shift      Shift     `gorm:"type:varchar(16);not null;uniqueIndex:idx_wedding_slot,priority:2" json:"shift"`
	VenueID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wedding_slot,priority:1" json:"venue_id"`
	Venue      *Venue    `gorm:"foreignKey:VenueID" json:"venue,omitempty"`

	TableCount    int           `gorm:"not null" json:"table_count"`
	Note          string        `json:"note"`
	IsPenaltyMode bool          `gorm:"default:false" json:"is_penalty_mode"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`

	Bills []Bill `gorm:"foreignKey:WeddingID" json:"bills,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Wedding) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return
}
