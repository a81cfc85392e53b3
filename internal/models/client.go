package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente simples, sem login, vinculado à conta.
// Email funciona como chave natural dentro da conta (portal público).
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID uuid.UUID `gorm:"type:uuid;index:idx_clients_account_email" json:"account_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100;index:idx_clients_account_email" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
