package dto

import (
	"time"

	"github.com/google/uuid"
)

// View-model pronto para renderização: agendamento cru + referências
// resolvidas + status derivado.

type ClientInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type ModalityInfo struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type AppointmentView struct {
	ID        uuid.UUID `json:"id"`
	StartTime time.Time `json:"start_time"`

	Status          string `json:"status"`
	EffectiveStatus string `json:"effective_status"`
	Label           string `json:"label"`
	Color           string `json:"color"`

	Value         float64 `json:"value"`
	Complimentary bool    `json:"complimentary"`
	Recurring     bool    `json:"recurring"`

	BookingSource string `json:"booking_source"`
	PaymentStatus string `json:"payment_status"`

	Notes string `json:"notes,omitempty"`

	// Ausentes quando a referência é nula ou não resolvida
	Client       *ClientInfo   `json:"client,omitempty"`
	ModalityInfo *ModalityInfo `json:"modality_info,omitempty"`
}
