package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conta do profissional (dona dos clientes, modalidades e agendamentos)
type Account struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`

	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Timezone string `gorm:"size:50" json:"timezone"`

	// Janela de atendimento usada pelo portal público
	WorkStart string `gorm:"size:5;default:'08:00'" json:"work_start"`
	WorkEnd   string `gorm:"size:5;default:'20:00'" json:"work_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
