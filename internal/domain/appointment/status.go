package appointment

import (
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusPaid      Status = "paid"
	StatusToCharge  Status = "to_charge"
	StatusCancelled Status = "cancelled"

	// Apenas exibição, nunca persistido
	StatusComplimentary Status = "complimentary"
)

// Sub-status de pagamento (portal online)
const (
	PaymentNotRequired = "not_required"
	PaymentPending     = "pending"
	PaymentFailed      = "failed"
)

// Origem do agendamento
const (
	SourceManual = "manual"
	SourceOnline = "online"
)

func IsPersistable(s Status) bool {
	switch s {
	case StatusScheduled, StatusPaid, StatusToCharge, StatusCancelled:
		return true
	}
	return false
}

// ===============================
// Effective status
// ===============================

// Derive calcula o status de exibição: cortesia sempre vence; agendado
// com data anterior a hoje (hora zerada) vira "a cobrar". Calculado a
// cada leitura, nunca persistido.
func Derive(raw Status, start time.Time, complimentary bool, now time.Time) Status {
	if complimentary {
		return StatusComplimentary
	}
	if raw == StatusScheduled && dateOnly(start, now.Location()).Before(dateOnly(now, now.Location())) {
		return StatusToCharge
	}
	return raw
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ===============================
// Display (label + cor)
// ===============================

type Display struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
	Color  string `json:"color"`
}

var labels = map[Status]string{
	StatusScheduled:     "Agendado",
	StatusPaid:          "Pago",
	StatusToCharge:      "A cobrar",
	StatusCancelled:     "Cancelado",
	StatusComplimentary: "Cortesia",
}

var colors = map[Status]string{
	StatusScheduled:     "#0ea5e9",
	StatusPaid:          "#22c55e",
	StatusToCharge:      "#f59e0b",
	StatusCancelled:     "#ef4444",
	StatusComplimentary: "#a855f7",
}

// Recorrência só escurece a cor; o texto do label não muda.
var recurringColors = map[Status]string{
	StatusScheduled:     "#0369a1",
	StatusPaid:          "#15803d",
	StatusToCharge:      "#b45309",
	StatusCancelled:     "#b91c1c",
	StatusComplimentary: "#7e22ce",
}

func Describe(effective Status, recurring bool) Display {
	color := colors[effective]
	if recurring {
		color = recurringColors[effective]
	}
	return Display{
		Status: effective,
		Label:  labels[effective],
		Color:  color,
	}
}

// ===============================
// Validations
// ===============================

// CanCancel define se um agendamento pode ser cancelado
func CanCancel(current Status) error {
	if current != StatusScheduled && current != StatusToCharge {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanMarkPaid define se um agendamento pode ser marcado como pago
func CanMarkPaid(current Status) error {
	if current != StatusScheduled && current != StatusToCharge {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// InitialStatus valida status inicial
func InitialStatus() Status {
	return StatusScheduled
}
