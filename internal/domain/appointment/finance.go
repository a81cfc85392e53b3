package appointment

import (
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/models"
)

// ===============================
// Financial Summary
// ===============================

type Bucket struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

type Summary struct {
	Paid      Bucket `json:"paid"`
	ToCharge  Bucket `json:"to_charge"`
	Scheduled Bucket `json:"scheduled"`
	Cancelled Bucket `json:"cancelled"`
}

// Summarize reduz a lista em totais e contagens por status.
// O balde é o status derivado pela data (agendado vencido conta como
// "a cobrar"); cortesias entram no balde normal com valor 0.
func Summarize(items []models.Appointment, now time.Time) Summary {
	var s Summary

	for _, ap := range items {
		bucket := Derive(Status(ap.Status), ap.StartTime, false, now)

		switch bucket {
		case StatusPaid:
			s.Paid.Total += ap.Value
			s.Paid.Count++
		case StatusToCharge:
			s.ToCharge.Total += ap.Value
			s.ToCharge.Count++
		case StatusScheduled:
			s.Scheduled.Total += ap.Value
			s.Scheduled.Count++
		case StatusCancelled:
			s.Cancelled.Total += ap.Value
			s.Cancelled.Count++
		}
	}

	return s
}
