package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Modality struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID uuid.UUID `gorm:"type:uuid;index" json:"account_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Price       float64 `json:"price"`
	DurationMin int     `gorm:"default:60" json:"duration_min"`
	Active      bool    `gorm:"default:true" json:"active"`

	ImageURL string `gorm:"size:255" json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Modality) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
