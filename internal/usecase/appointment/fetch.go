package appointment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/cache"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/dto"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/querycache"
	"github.com/BruksfildServices01/agenda-api/internal/store"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type FetchAppointmentsInput struct {
	AccountID uuid.UUID
	From      *time.Time
	To        *time.Time
	ClientID  *uuid.UUID
}

// ======================================================
// USE CASE
// ======================================================

// FetchAppointments esgota o store página a página, resolve clientes e
// modalidades pelo cache de entidades e monta os view-models com status
// derivado. Resultado vai para o cache de queries.
type FetchAppointments struct {
	repo     domain.Repository
	entities *cache.EntityCache
	queries  *querycache.Cache
	logger   *slog.Logger
}

func NewFetchAppointments(
	repo domain.Repository,
	entities *cache.EntityCache,
	queries *querycache.Cache,
	logger *slog.Logger,
) *FetchAppointments {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchAppointments{
		repo:     repo,
		entities: entities,
		queries:  queries,
		logger:   logger,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *FetchAppointments) Execute(
	ctx context.Context,
	in FetchAppointmentsInput,
) ([]dto.AppointmentView, error) {

	acc, err := uc.repo.GetAccountByID(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	cacheName := queryName(in)

	var cached []dto.AppointmentView
	hit, err := uc.queries.Get(ctx, in.AccountID, cacheName, &cached)
	if err != nil {
		uc.logger.Warn("query cache read failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	filter := domain.ListFilter{
		AccountID: in.AccountID,
		From:      in.From,
		To:        in.To,
		ClientID:  in.ClientID,
	}

	result, err := store.DrainAll(ctx, func(ctx context.Context, offset, limit int) ([]models.Appointment, error) {
		return uc.repo.PageAppointments(ctx, filter, offset, limit)
	})
	if err != nil {
		return nil, err
	}

	if result.State == store.StateTruncated {
		uc.logger.Warn("appointment fetch truncated at record ceiling",
			"account_id", in.AccountID,
			"rows", len(result.Rows),
		)
	}

	now := timezone.NowIn(acc.Timezone)

	views, err := uc.decorate(ctx, acc, result.Rows, now)
	if err != nil {
		return nil, err
	}

	// O status efetivo muda na virada do dia; a entrada não pode
	// sobreviver à meia-noite do fuso da conta.
	if err := uc.queries.SetTTL(ctx, in.AccountID, cacheName, views, untilMidnight(now)); err != nil {
		uc.logger.Warn("query cache write failed", "error", err)
	}

	return views, nil
}

func (uc *FetchAppointments) decorate(
	ctx context.Context,
	acc *models.Account,
	rows []models.Appointment,
	now time.Time,
) ([]dto.AppointmentView, error) {

	clientIDs := make([]uuid.UUID, 0, len(rows))
	modalityIDs := make([]uuid.UUID, 0, len(rows))

	for _, ap := range rows {
		if ap.ClientID != nil {
			clientIDs = append(clientIDs, *ap.ClientID)
		}
		if ap.ModalityID != nil {
			modalityIDs = append(modalityIDs, *ap.ModalityID)
		}
	}

	clients, err := uc.entities.ResolveClients(ctx, acc.ID, clientIDs)
	if err != nil {
		return nil, err
	}

	modalities, err := uc.entities.ResolveModalities(ctx, acc.ID, modalityIDs)
	if err != nil {
		return nil, err
	}

	return buildViews(rows, clients, modalities, now), nil
}

// untilMidnight limita a validade da entrada à virada do dia no fuso
// da conta.
func untilMidnight(now time.Time) time.Duration {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return midnight.Sub(now)
}

// buildViews é a etapa pura de join/decorate: referências ausentes
// ficam ausentes no view-model, nunca viram erro.
func buildViews(
	rows []models.Appointment,
	clients map[uuid.UUID]models.Client,
	modalities map[uuid.UUID]models.Modality,
	now time.Time,
) []dto.AppointmentView {

	views := make([]dto.AppointmentView, 0, len(rows))

	for _, ap := range rows {
		recurring := ap.RecurrenceID != nil

		effective := domain.Derive(
			domain.Status(ap.Status),
			ap.StartTime,
			ap.Complimentary,
			now,
		)
		display := domain.Describe(effective, recurring)

		view := dto.AppointmentView{
			ID:              ap.ID,
			StartTime:       ap.StartTime,
			Status:          ap.Status,
			EffectiveStatus: string(display.Status),
			Label:           display.Label,
			Color:           display.Color,
			Value:           ap.Value,
			Complimentary:   ap.Complimentary,
			Recurring:       recurring,
			BookingSource:   ap.BookingSource,
			PaymentStatus:   ap.PaymentStatus,
			Notes:           ap.Notes,
		}

		if ap.ClientID != nil {
			if cl, ok := clients[*ap.ClientID]; ok {
				view.Client = &dto.ClientInfo{Name: cl.Name, Phone: cl.Phone}
			}
		}
		if ap.ModalityID != nil {
			if m, ok := modalities[*ap.ModalityID]; ok {
				view.ModalityInfo = &dto.ModalityInfo{Name: m.Name, Price: m.Price}
			}
		}

		views = append(views, view)
	}

	return views
}

func queryName(in FetchAppointmentsInput) string {
	from, to := "", ""
	if in.From != nil {
		from = in.From.Format(time.RFC3339)
	}
	if in.To != nil {
		to = in.To.Format(time.RFC3339)
	}

	if in.ClientID != nil {
		return fmt.Sprintf("client-bookings:%s:%s:%s", in.ClientID, from, to)
	}
	return fmt.Sprintf("appointments:%s:%s", from, to)
}
