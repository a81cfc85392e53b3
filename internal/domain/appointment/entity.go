package appointment

import (
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func MarkPaid(ap *models.Appointment, now time.Time) error {
	if err := CanMarkPaid(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusPaid)
	ap.PaidAt = &now
	return nil
}
