package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/cache"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/querycache"
)

// fake mínimo: só o recorte que a exclusão de cliente usa.
type fakeRepo struct {
	client       *models.Client
	appointments int64

	cascadeCalls int
}

var errNotFound = errors.New("record not found")

func (f *fakeRepo) GetClient(ctx context.Context, accountID, clientID uuid.UUID) (*models.Client, error) {
	if f.client != nil && f.client.ID == clientID {
		return f.client, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) CountClientAppointments(ctx context.Context, accountID, clientID uuid.UUID) (int64, error) {
	return f.appointments, nil
}

func (f *fakeRepo) DeleteClientCascade(ctx context.Context, accountID, clientID uuid.UUID) (int64, error) {
	f.cascadeCalls++
	removed := f.appointments
	f.appointments = 0
	f.client = nil
	return removed, nil
}

func (f *fakeRepo) ListClientsByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]models.Client, error) {
	return nil, nil
}

func (f *fakeRepo) ListModalitiesByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]models.Modality, error) {
	return nil, nil
}

// o resto da interface não participa deste fluxo
func (f *fakeRepo) GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return nil, errNotFound
}
func (f *fakeRepo) GetAccountBySlug(ctx context.Context, slug string) (*models.Account, error) {
	return nil, errNotFound
}
func (f *fakeRepo) GetModality(ctx context.Context, accountID, modalityID uuid.UUID) (*models.Modality, error) {
	return nil, errNotFound
}
func (f *fakeRepo) FindClientByEmail(ctx context.Context, accountID uuid.UUID, email string) (*models.Client, error) {
	return nil, errNotFound
}
func (f *fakeRepo) CreateClient(ctx context.Context, client *models.Client) error { return nil }
func (f *fakeRepo) PageAppointments(ctx context.Context, filter domain.ListFilter, offset, limit int) ([]models.Appointment, error) {
	return nil, nil
}
func (f *fakeRepo) GetAppointment(ctx context.Context, accountID, id uuid.UUID) (*models.Appointment, error) {
	return nil, errNotFound
}
func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error { return nil }
func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error { return nil }
func (f *fakeRepo) UpdateAppointmentFields(ctx context.Context, accountID, id uuid.UUID, fields map[string]any) (*models.Appointment, error) {
	return nil, errNotFound
}
func (f *fakeRepo) DeleteAppointment(ctx context.Context, accountID, id uuid.UUID) error {
	return nil
}
func (f *fakeRepo) SlotTaken(ctx context.Context, accountID uuid.UUID, start time.Time) (bool, error) {
	return false, nil
}
func (f *fakeRepo) ListOccupiedTimes(ctx context.Context, accountID uuid.UUID, dayStart, dayEnd time.Time) ([]time.Time, error) {
	return nil, nil
}

var _ domain.Repository = (*fakeRepo)(nil)
var _ cache.Source = (*fakeRepo)(nil)

func newDeleteUC(repo *fakeRepo) *DeleteClient {
	return NewDeleteClient(
		repo,
		cache.New(repo),
		querycache.New(nil),
		audit.NewDispatcher(audit.New(nil)),
	)
}

func TestDeleteClientWithoutAppointments(t *testing.T) {
	account := uuid.New()
	repo := &fakeRepo{
		client: &models.Client{ID: uuid.New(), AccountID: account, Name: "Maria"},
	}

	out, err := newDeleteUC(repo).Execute(context.Background(), DeleteClientInput{
		AccountID: account,
		ClientID:  repo.client.ID,
		// sem confirmação: não há dependentes
	})
	require.NoError(t, err)

	assert.Zero(t, out.RemovedAppointments)
	assert.Equal(t, 1, repo.cascadeCalls)
}

func TestDeleteClientRequiresConfirmation(t *testing.T) {
	account := uuid.New()
	repo := &fakeRepo{
		client:       &models.Client{ID: uuid.New(), AccountID: account, Name: "Maria"},
		appointments: 3,
	}

	_, err := newDeleteUC(repo).Execute(context.Background(), DeleteClientInput{
		AccountID: account,
		ClientID:  repo.client.ID,
	})

	assert.True(t, httperr.IsBusiness(err, "confirmation_required"))
	assert.Zero(t, repo.cascadeCalls)
}

func TestDeleteClientConfirmationMustMatchExactly(t *testing.T) {
	account := uuid.New()
	clientID := uuid.New()

	tests := []struct {
		name    string
		confirm string
		code    string
	}{
		{"nome errado", "Mariana", "confirmation_mismatch"},
		{"caixa diferente", "maria", "confirmation_mismatch"},
		{"espaço extra", "Maria ", "confirmation_mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{
				client:       &models.Client{ID: clientID, AccountID: account, Name: "Maria"},
				appointments: 2,
			}

			_, err := newDeleteUC(repo).Execute(context.Background(), DeleteClientInput{
				AccountID:   account,
				ClientID:    clientID,
				ConfirmName: tt.confirm,
			})

			assert.True(t, httperr.IsBusiness(err, tt.code))
			assert.Zero(t, repo.cascadeCalls)
		})
	}
}

func TestDeleteClientCascadeRemovesAppointments(t *testing.T) {
	account := uuid.New()
	repo := &fakeRepo{
		client:       &models.Client{ID: uuid.New(), AccountID: account, Name: "Maria"},
		appointments: 5,
	}

	out, err := newDeleteUC(repo).Execute(context.Background(), DeleteClientInput{
		AccountID:   account,
		ClientID:    repo.client.ID,
		ConfirmName: "Maria",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), out.RemovedAppointments)
	assert.Equal(t, 1, repo.cascadeCalls)
}

func TestDeleteClientNotFound(t *testing.T) {
	repo := &fakeRepo{}

	_, err := newDeleteUC(repo).Execute(context.Background(), DeleteClientInput{
		AccountID: uuid.New(),
		ClientID:  uuid.New(),
	})

	assert.True(t, httperr.IsBusiness(err, "client_not_found"))
}
