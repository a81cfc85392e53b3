package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/querycache"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

// ======================================================
// AVAILABLE HOURS
// ======================================================

type AvailableHoursInput struct {
	Slug string
	Date string
}

type AvailableHours struct {
	repo    domain.Repository
	queries *querycache.Cache
	logger  *slog.Logger
}

func NewAvailableHours(
	repo domain.Repository,
	queries *querycache.Cache,
	logger *slog.Logger,
) *AvailableHours {
	if logger == nil {
		logger = slog.Default()
	}
	return &AvailableHours{
		repo:    repo,
		queries: queries,
		logger:  logger,
	}
}

// Execute lista os horários cheios livres dentro da janela de
// atendimento da conta. Um horário está livre quando nenhum
// agendamento não cancelado ocupa exatamente aquele date-time.
func (uc *AvailableHours) Execute(
	ctx context.Context,
	in AvailableHoursInput,
) ([]string, error) {

	acc, err := uc.repo.GetAccountBySlug(ctx, in.Slug)
	if err != nil {
		return nil, httperr.ErrBusiness("account_not_found")
	}

	loc := timezone.Location(acc.Timezone)

	day, err := time.ParseInLocation("2006-01-02", in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	cacheName := fmt.Sprintf("available-hours:%s", in.Date)

	var cached []string
	hit, err := uc.queries.Get(ctx, acc.ID, cacheName, &cached)
	if err != nil {
		uc.logger.Warn("query cache read failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	occupied, err := uc.repo.ListOccupiedTimes(ctx, acc.ID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(occupied))
	for _, t := range occupied {
		taken[t.In(loc).Format("15:04")] = struct{}{}
	}

	hours := workWindowHours(acc, day, loc)

	free := make([]string, 0, len(hours))
	for _, h := range hours {
		if _, ok := taken[h]; !ok {
			free = append(free, h)
		}
	}

	if err := uc.queries.Set(ctx, acc.ID, cacheName, free); err != nil {
		uc.logger.Warn("query cache write failed", "error", err)
	}

	return free, nil
}

// workWindowHours gera os horários cheios entre WorkStart e WorkEnd.
func workWindowHours(acc *models.Account, day time.Time, loc *time.Location) []string {
	parseHM := func(hm string) (time.Time, bool) {
		t, err := time.Parse("15:04", hm)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(
			day.Year(), day.Month(), day.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		), true
	}

	start, ok := parseHM(acc.WorkStart)
	if !ok {
		start, _ = parseHM("08:00")
	}
	end, ok := parseHM(acc.WorkEnd)
	if !ok {
		end, _ = parseHM("20:00")
	}

	var hours []string
	for cur := start; cur.Before(end); cur = cur.Add(time.Hour) {
		hours = append(hours, cur.Format("15:04"))
	}
	return hours
}

func parseUUID(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}
