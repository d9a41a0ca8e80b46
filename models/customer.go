package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name  string    `gorm:"not null" json:"name"`
	Phone string    `gorm:"not null;uniqueIndex" json:"phone"`
	Email string    `json:"email,omitempty"`
	Notes string    `json:"notes,omitempty"`

	Weddings []Wedding `gorm:"foreignKey:CustomerID" json:"weddings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
