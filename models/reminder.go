package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderTemplate holds the text sent to customers with an outstanding balance.
// Supported placeholders: [CustomerName], [WeddingDate], [Remain].
type ReminderTemplate struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Type     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"type"` // upcoming, overdue
	Message  string    `gorm:"type:text;not null" json:"message"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *ReminderTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

type ReminderLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	WeddingID    uuid.UUID `gorm:"type:uuid;index;not null" json:"wedding_id"`
	CustomerID   uuid.UUID `gorm:"type:uuid;index;not null" json:"customer_id"`
	TemplateID   uuid.UUID `gorm:"type:uuid;index;not null" json:"template_id"`
	Type         string    `gorm:"type:varchar(20)" json:"type"`
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"error_message,omitempty"`
	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	SentAt       time.Time `json:"sent_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// All returns every model the schema is migrated from.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Customer{},
		&VenueType{},
		&Venue{},
		&Food{},
		&Service{},
		&Wedding{},
		&FoodOrder{},
		&ServiceOrder{},
		&Bill{},
		&ReminderTemplate{},
		&ReminderLog{},
	}
}
