package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/cache"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/payments"
	"github.com/BruksfildServices01/agenda-api/internal/querycache"
)

// ======================================================
// FAKES
// ======================================================

type fakeRepo struct {
	acc        *models.Account
	modalities map[uuid.UUID]models.Modality
	clients    map[uuid.UUID]models.Client

	appointments []models.Appointment
	takenSlots   map[time.Time]bool

	findClientErr error
}

var errNotFound = gorm.ErrRecordNotFound

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		acc: &models.Account{
			ID:       uuid.New(),
			Name:     "Estúdio Alfa",
			Slug:     "estudio-alfa",
			Timezone: "America/Sao_Paulo",
		},
		modalities: map[uuid.UUID]models.Modality{},
		clients:    map[uuid.UUID]models.Client{},
		takenSlots: map[time.Time]bool{},
	}
}

func (f *fakeRepo) addModality(name string, price float64, active bool) models.Modality {
	m := models.Modality{ID: uuid.New(), AccountID: f.acc.ID, Name: name, Price: price, Active: active}
	f.modalities[m.ID] = m
	return m
}

func (f *fakeRepo) GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	if f.acc.ID == id {
		return f.acc, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) GetAccountBySlug(ctx context.Context, slug string) (*models.Account, error) {
	if f.acc.Slug == slug {
		return f.acc, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) GetModality(ctx context.Context, accountID, modalityID uuid.UUID) (*models.Modality, error) {
	if m, ok := f.modalities[modalityID]; ok {
		return &m, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) GetClient(ctx context.Context, accountID, clientID uuid.UUID) (*models.Client, error) {
	if cl, ok := f.clients[clientID]; ok {
		return &cl, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) FindClientByEmail(ctx context.Context, accountID uuid.UUID, email string) (*models.Client, error) {
	if f.findClientErr != nil {
		return nil, f.findClientErr
	}
	for _, cl := range f.clients {
		if cl.Email == email {
			return &cl, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) CreateClient(ctx context.Context, client *models.Client) error {
	client.ID = uuid.New()
	f.clients[client.ID] = *client
	return nil
}

func (f *fakeRepo) CountClientAppointments(ctx context.Context, accountID, clientID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) DeleteClientCascade(ctx context.Context, accountID, clientID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) PageAppointments(ctx context.Context, filter domain.ListFilter, offset, limit int) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeRepo) GetAppointment(ctx context.Context, accountID, id uuid.UUID) (*models.Appointment, error) {
	return nil, errNotFound
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	if f.takenSlots[ap.StartTime] {
		return httperr.ErrBusiness("slot_taken")
	}
	ap.ID = uuid.New()
	f.takenSlots[ap.StartTime] = true
	f.appointments = append(f.appointments, *ap)
	return nil
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return nil
}

func (f *fakeRepo) UpdateAppointmentFields(ctx context.Context, accountID, id uuid.UUID, fields map[string]any) (*models.Appointment, error) {
	for i := range f.appointments {
		if f.appointments[i].ID == id {
			if v, ok := fields["payment_status"]; ok {
				f.appointments[i].PaymentStatus = v.(string)
			}
			ap := f.appointments[i]
			return &ap, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) DeleteAppointment(ctx context.Context, accountID, id uuid.UUID) error {
	return nil
}

func (f *fakeRepo) SlotTaken(ctx context.Context, accountID uuid.UUID, start time.Time) (bool, error) {
	return f.takenSlots[start], nil
}

func (f *fakeRepo) ListOccupiedTimes(ctx context.Context, accountID uuid.UUID, dayStart, dayEnd time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, ap := range f.appointments {
		if ap.Status == "cancelled" {
			continue
		}
		if !ap.StartTime.Before(dayStart) && ap.StartTime.Before(dayEnd) {
			out = append(out, ap.StartTime)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListClientsByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]models.Client, error) {
	return nil, nil
}

func (f *fakeRepo) ListModalitiesByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]models.Modality, error) {
	return nil, nil
}

var _ domain.Repository = (*fakeRepo)(nil)
var _ cache.Source = (*fakeRepo)(nil)

type fakeCheckout struct {
	calls int
	url   string
	err   error
	last  payments.PreferenceInput
}

func (f *fakeCheckout) CreatePreference(ctx context.Context, in payments.PreferenceInput) (string, error) {
	f.calls++
	f.last = in
	return f.url, f.err
}

func newBookingUC(repo *fakeRepo, checkout payments.Checkout) *CreatePublicBooking {
	return NewCreatePublicBooking(
		repo,
		cache.New(repo),
		querycache.New(nil),
		checkout,
		audit.NewDispatcher(audit.New(nil)),
		nil,
	)
}

func validInput(repo *fakeRepo, m models.Modality) CreatePublicBookingInput {
	return CreatePublicBookingInput{
		Slug:        repo.acc.Slug,
		ClientName:  "Maria",
		ClientEmail: "maria@example.com",
		ClientPhone: "11999990000",
		ModalityID:  m.ID.String(),
		Date:        "2030-03-10",
		Time:        "09:00",
	}
}

// ======================================================
// TESTS
// ======================================================

func TestPublicBookingCreatesClientWhenEmailUnknown(t *testing.T) {
	repo := newFakeRepo()
	m := repo.addModality("Pilates", 0, true)

	out, err := newBookingUC(repo, nil).Execute(context.Background(), validInput(repo, m))
	require.NoError(t, err)

	require.Len(t, repo.clients, 1)
	for _, cl := range repo.clients {
		assert.Equal(t, "Maria", cl.Name)
		assert.Equal(t, "maria@example.com", cl.Email)
	}

	ap := out.Appointment
	assert.Equal(t, "online", ap.BookingSource)
	assert.Equal(t, "scheduled", ap.Status)
	assert.Equal(t, "not_required", ap.PaymentStatus)
	assert.Empty(t, out.CheckoutURL)
}

func TestPublicBookingReusesClientByEmail(t *testing.T) {
	repo := newFakeRepo()
	m := repo.addModality("Pilates", 0, true)

	existing := models.Client{ID: uuid.New(), AccountID: repo.acc.ID, Name: "Maria Silva", Email: "maria@example.com"}
	repo.clients[existing.ID] = existing

	in := validInput(repo, m)
	in.ClientEmail = "  MARIA@example.com " // normalizado antes da busca

	out, err := newBookingUC(repo, nil).Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Len(t, repo.clients, 1)
	require.NotNil(t, out.Appointment.ClientID)
	assert.Equal(t, existing.ID, *out.Appointment.ClientID)
}

func TestPublicBookingClientLookupFailureAborts(t *testing.T) {
	repo := newFakeRepo()
	m := repo.addModality("Pilates", 0, true)

	existing := models.Client{ID: uuid.New(), AccountID: repo.acc.ID, Name: "Maria", Email: "maria@example.com"}
	repo.clients[existing.ID] = existing

	// falha de infra na busca não pode virar "cliente não existe"
	repo.findClientErr = errors.New("connection timed out")

	_, err := newBookingUC(repo, nil).Execute(context.Background(), validInput(repo, m))
	require.ErrorIs(t, err, repo.findClientErr)

	assert.Len(t, repo.clients, 1, "nenhum cliente duplicado")
	assert.Empty(t, repo.appointments, "nenhuma reserva criada")
}

func TestPublicBookingMissingEmail(t *testing.T) {
	repo := newFakeRepo()
	m := repo.addModality("Pilates", 0, true)

	in := validInput(repo, m)
	in.ClientEmail = "   "

	_, err := newBookingUC(repo, nil).Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "missing_email"))
}

func TestPublicBookingUnknownSlug(t *testing.T) {
	repo := newFakeRepo()
	m := repo.addModality("Pilates", 0, true)

	in := validInput(repo, m)
	in.Slug = "outro-estudio"

	_, err := newBookingUC(repo, nil).Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "account_not_found"))
}

func TestPublicBookingPastSlotRejected(t *testing.T) {
	repo := newFakeRepo()
	m := repo.addModality("Pilates", 0, true)

	in := validInput(repo, m)
	in.Date = "2020-01-01"

	_, err := newBookingUC(repo, nil).Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "slot_in_the_past"))
}

func TestPublicBookingInactiveModalityHidden(t *testing.T) {
	repo := newFakeRepo()
	m := repo.addModality("Pilates", 0, false)

	_, err := newBookingUC(repo, nil).Execute(context.Background(), validInput(repo, m))
	assert.True(t, httperr.IsBusiness(err, "modality_not_found"))
}

func TestPublicBookingSlotTaken(t *testing.T) {
	repo := newFakeRepo()
	m := repo.addModality("Pilates", 0, true)
	uc := newBookingUC(repo, nil)

	_, err := uc.Execute(context.Background(), validInput(repo, m))
	require.NoError(t, err)

	in := validInput(repo, m)
	in.ClientEmail = "joao@example.com"
	in.ClientName = "João"

	_, err = uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "slot_taken"))
}

func TestPublicBookingPaidModalityGoesThroughCheckout(t *testing.T) {
	repo := newFakeRepo()
	m := repo.addModality("Pilates", 150, true)

	checkout := &fakeCheckout{url: "https://pay.example/init"}

	out, err := newBookingUC(repo, checkout).Execute(context.Background(), validInput(repo, m))
	require.NoError(t, err)

	assert.Equal(t, 1, checkout.calls)
	assert.Equal(t, "Pilates", checkout.last.Title)
	assert.Equal(t, 150.0, checkout.last.Amount)
	assert.Equal(t, "maria@example.com", checkout.last.PayerEmail)

	assert.Equal(t, "https://pay.example/init", out.CheckoutURL)
	assert.Equal(t, "pending", out.Appointment.PaymentStatus)
}

func TestPublicBookingCheckoutFailureKeepsBooking(t *testing.T) {
	repo := newFakeRepo()
	m := repo.addModality("Pilates", 150, true)

	checkout := &fakeCheckout{err: errors.New("gateway down")}

	out, err := newBookingUC(repo, checkout).Execute(context.Background(), validInput(repo, m))
	require.NoError(t, err, "falha de cobrança não desfaz a reserva")

	assert.Empty(t, out.CheckoutURL)
	assert.Equal(t, "failed", out.Appointment.PaymentStatus)
	assert.Len(t, repo.appointments, 1)
}

func TestPublicBookingFreeModalitySkipsCheckout(t *testing.T) {
	repo := newFakeRepo()
	m := repo.addModality("Aula experimental", 0, true)

	checkout := &fakeCheckout{url: "https://pay.example/init"}

	out, err := newBookingUC(repo, checkout).Execute(context.Background(), validInput(repo, m))
	require.NoError(t, err)

	assert.Zero(t, checkout.calls)
	assert.Equal(t, "not_required", out.Appointment.PaymentStatus)
}
