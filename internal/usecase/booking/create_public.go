package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/cache"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/payments"
	"github.com/BruksfildServices01/agenda-api/internal/querycache"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreatePublicBookingInput struct {
	Slug string

	ClientName  string
	ClientEmail string
	ClientPhone string

	ModalityID string

	Date string
	Time string
}

type CreatePublicBookingOutput struct {
	Appointment *models.Appointment `json:"appointment"`
	CheckoutURL string              `json:"checkout_url,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

// CreatePublicBooking é o fluxo do portal: resolve o cliente por
// (email, conta), criando se não existir; recusa slot ocupado; cobra
// via checkout quando a modalidade tem preço.
type CreatePublicBooking struct {
	repo     domain.Repository
	entities *cache.EntityCache
	queries  *querycache.Cache
	checkout payments.Checkout
	audit    *audit.Dispatcher
	logger   *slog.Logger
}

func NewCreatePublicBooking(
	repo domain.Repository,
	entities *cache.EntityCache,
	queries *querycache.Cache,
	checkout payments.Checkout,
	auditD *audit.Dispatcher,
	logger *slog.Logger,
) *CreatePublicBooking {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreatePublicBooking{
		repo:     repo,
		entities: entities,
		queries:  queries,
		checkout: checkout,
		audit:    auditD,
		logger:   logger,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreatePublicBooking) Execute(
	ctx context.Context,
	in CreatePublicBookingInput,
) (*CreatePublicBookingOutput, error) {

	acc, err := uc.repo.GetAccountBySlug(ctx, in.Slug)
	if err != nil {
		return nil, httperr.ErrBusiness("account_not_found")
	}

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(acc.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	now := timezone.NowIn(acc.Timezone)
	if start.Before(now) {
		return nil, httperr.ErrBusiness("slot_in_the_past")
	}

	modality, err := uc.getModality(ctx, acc, in.ModalityID)
	if err != nil {
		return nil, err
	}
	if !modality.Active {
		return nil, httperr.ErrBusiness("modality_not_found")
	}

	client, err := uc.resolveClient(ctx, acc, in)
	if err != nil {
		return nil, err
	}

	// Pré-checagem amigável; o índice único parcial cobre a corrida
	// entre a checagem e o insert.
	taken, err := uc.repo.SlotTaken(ctx, acc.ID, start)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, httperr.ErrBusiness("slot_taken")
	}

	ap := models.Appointment{
		AccountID:     acc.ID,
		ClientID:      &client.ID,
		ModalityID:    &modality.ID,
		ModalityName:  modality.Name,
		StartTime:     start,
		Status:        string(domain.InitialStatus()),
		Value:         modality.Price,
		BookingSource: domain.SourceOnline,
		PaymentStatus: domain.PaymentNotRequired,
	}

	if err := uc.repo.CreateAppointment(ctx, &ap); err != nil {
		return nil, err
	}

	out := &CreatePublicBookingOutput{Appointment: &ap}

	// Cobrança: preço > 0 gera preferência de checkout. Falha não
	// desfaz a reserva; fica registrada como payment failed.
	if modality.Price > 0 && uc.checkout != nil {
		url, payErr := uc.checkout.CreatePreference(ctx, payments.PreferenceInput{
			Title:      modality.Name,
			Amount:     modality.Price,
			Reference:  ap.ID.String(),
			PayerEmail: client.Email,
		})

		status := domain.PaymentPending
		if payErr != nil {
			status = domain.PaymentFailed
			uc.logger.Error("checkout preference failed",
				"appointment_id", ap.ID,
				"error", payErr,
			)
			sentry.CaptureException(payErr)
		} else {
			out.CheckoutURL = url
		}

		updated, err := uc.repo.UpdateAppointmentFields(
			ctx, acc.ID, ap.ID,
			map[string]any{"payment_status": status},
		)
		if err == nil {
			out.Appointment = updated
		}
	}

	_ = uc.queries.Invalidate(ctx, acc.ID) // cache velho expira sozinho

	uc.audit.Dispatch(audit.Event{
		AccountID: acc.ID,
		Action:    "online_booking_created",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return out, nil
}

// resolveClient: email é a chave natural do cliente dentro da conta.
func (uc *CreatePublicBooking) resolveClient(
	ctx context.Context,
	acc *models.Account,
	in CreatePublicBookingInput,
) (*models.Client, error) {

	email := strings.ToLower(strings.TrimSpace(in.ClientEmail))
	if email == "" {
		return nil, httperr.ErrBusiness("missing_email")
	}

	client, err := uc.repo.FindClientByEmail(ctx, acc.ID, email)
	if err == nil {
		return client, nil
	}
	// só "não existe" autoriza criar; falha de infra aborta a reserva
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := models.Client{
		AccountID: acc.ID,
		Name:      in.ClientName,
		Email:     email,
		Phone:     in.ClientPhone,
	}
	if err := uc.repo.CreateClient(ctx, &created); err != nil {
		return nil, err
	}

	uc.entities.PutClient(acc.ID, created)

	return &created, nil
}

func (uc *CreatePublicBooking) getModality(
	ctx context.Context,
	acc *models.Account,
	rawID string,
) (*models.Modality, error) {

	id, err := parseUUID(rawID)
	if err != nil {
		return nil, httperr.ErrBusiness("modality_not_found")
	}

	modality, err := uc.repo.GetModality(ctx, acc.ID, id)
	if err != nil {
		return nil, httperr.ErrBusiness("modality_not_found")
	}
	return modality, nil
}
