package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	AccountID uuid.UUID `gorm:"type:uuid;index" json:"account_id"`

	// ClientID fica nulo em registros órfãos/legados
	ClientID *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	Client   *Client    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`

	ModalityID *uuid.UUID `gorm:"type:uuid" json:"modality_id"`
	Modality   *Modality  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"modality,omitempty"`

	// snapshot do nome no momento da criação
	ModalityName string `gorm:"size:100" json:"modality_name"`

	StartTime time.Time `json:"start_time"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	// Valor congelado na criação/edição; 0 quando cortesia
	Value         float64 `json:"value"`
	Complimentary bool    `gorm:"default:false" json:"complimentary"`

	RecurrenceID *uuid.UUID `gorm:"type:uuid;index" json:"recurrence_id"`

	BookingSource string `gorm:"size:10;default:'manual'" json:"booking_source"`
	PaymentStatus string `gorm:"size:20;default:'not_required'" json:"payment_status"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	PaidAt      *time.Time `json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
