package handlers

import (
	"time"

	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

// resolve o timezone oficial da conta
func locationFromAccount(acc *models.Account) *time.Location {
	if acc != nil {
		return timezone.Location(acc.Timezone)
	}
	return timezone.Location("")
}

func parseDateInAccount(acc *models.Account, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromAccount(acc),
	)
}
