package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/agenda-api/internal/models"
)

func TestSummarize(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, loc)

	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	items := []models.Appointment{
		{Status: "paid", Value: 100, StartTime: yesterday},
		{Status: "scheduled", Value: 50, StartTime: yesterday}, // vencido -> a cobrar
		{Status: "cancelled", Value: 30, StartTime: tomorrow},
	}

	s := Summarize(items, now)

	assert.Equal(t, Bucket{Total: 100, Count: 1}, s.Paid)
	assert.Equal(t, Bucket{Total: 50, Count: 1}, s.ToCharge)
	assert.Equal(t, Bucket{Total: 30, Count: 1}, s.Cancelled)
	assert.Equal(t, Bucket{Total: 0, Count: 0}, s.Scheduled)
}

func TestSummarizeComplimentaryCountsWithValueZero(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, loc)

	items := []models.Appointment{
		// cortesia futura: valor 0 persistido, conta no balde agendado
		{Status: "scheduled", Value: 0, Complimentary: true, StartTime: now.AddDate(0, 0, 2)},
		{Status: "scheduled", Value: 80, StartTime: now.AddDate(0, 0, 2)},
	}

	s := Summarize(items, now)

	assert.Equal(t, Bucket{Total: 80, Count: 2}, s.Scheduled)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, time.Now())

	assert.Zero(t, s.Paid.Count)
	assert.Zero(t, s.ToCharge.Count)
	assert.Zero(t, s.Scheduled.Count)
	assert.Zero(t, s.Cancelled.Count)
}
