package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-api/internal/models"
)

func TestFinancialSummary(t *testing.T) {
	repo := newFakeRepo()

	past := time.Now().AddDate(0, 0, -2)
	future := time.Now().AddDate(0, 0, 2)

	seedAppointment(repo, models.Appointment{Status: "paid", Value: 100, StartTime: past})
	seedAppointment(repo, models.Appointment{Status: "scheduled", Value: 50, StartTime: past}) // vencido
	seedAppointment(repo, models.Appointment{Status: "cancelled", Value: 30, StartTime: future})
	seedAppointment(repo, models.Appointment{Status: "scheduled", Value: 70, StartTime: future})

	s, err := NewFinancialSummary(repo).Execute(context.Background(), FinancialSummaryInput{
		AccountID: repo.acc.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, s.Paid.Total)
	assert.Equal(t, 1, s.Paid.Count)

	assert.Equal(t, 50.0, s.ToCharge.Total)
	assert.Equal(t, 1, s.ToCharge.Count)

	assert.Equal(t, 30.0, s.Cancelled.Total)
	assert.Equal(t, 1, s.Cancelled.Count)

	assert.Equal(t, 70.0, s.Scheduled.Total)
	assert.Equal(t, 1, s.Scheduled.Count)
}

func TestFinancialSummaryWithPeriod(t *testing.T) {
	repo := newFakeRepo()

	inRange := time.Now().AddDate(0, 0, 5)
	outOfRange := time.Now().AddDate(0, 2, 0)

	seedAppointment(repo, models.Appointment{Status: "scheduled", Value: 40, StartTime: inRange})
	seedAppointment(repo, models.Appointment{Status: "scheduled", Value: 999, StartTime: outOfRange})

	from := time.Now()
	to := time.Now().AddDate(0, 0, 10)

	s, err := NewFinancialSummary(repo).Execute(context.Background(), FinancialSummaryInput{
		AccountID: repo.acc.ID,
		From:      &from,
		To:        &to,
	})
	require.NoError(t, err)

	assert.Equal(t, 40.0, s.Scheduled.Total)
	assert.Equal(t, 1, s.Scheduled.Count)
}
