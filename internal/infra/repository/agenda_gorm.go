package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/cache"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/store"
)

const pgUniqueViolation = "23505"

type AgendaGormRepository struct {
	db    *gorm.DB
	store *store.Store
}

func NewAgendaGormRepository(db *gorm.DB, st *store.Store) *AgendaGormRepository {
	return &AgendaGormRepository{db: db, store: st}
}

// --------------------------------------------------
// Account
// --------------------------------------------------

func (r *AgendaGormRepository) GetAccountByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Account, error) {

	var acc models.Account
	if err := r.db.WithContext(ctx).First(&acc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *AgendaGormRepository) GetAccountBySlug(
	ctx context.Context,
	slug string,
) (*models.Account, error) {

	var acc models.Account
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&acc).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

// --------------------------------------------------
// Modality
// --------------------------------------------------

func (r *AgendaGormRepository) GetModality(
	ctx context.Context,
	accountID uuid.UUID,
	modalityID uuid.UUID,
) (*models.Modality, error) {

	var m models.Modality
	if err := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", modalityID, accountID).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AgendaGormRepository) GetClient(
	ctx context.Context,
	accountID uuid.UUID,
	clientID uuid.UUID,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", clientID, accountID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *AgendaGormRepository) FindClientByEmail(
	ctx context.Context,
	accountID uuid.UUID,
	email string,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND LOWER(email) = LOWER(?)", accountID, email).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *AgendaGormRepository) CreateClient(
	ctx context.Context,
	client *models.Client,
) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *AgendaGormRepository) CountClientAppointments(
	ctx context.Context,
	accountID uuid.UUID,
	clientID uuid.UUID,
) (int64, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("account_id = ? AND client_id = ?", accountID, clientID).
		Count(&count).Error

	return count, err
}

// DeleteClientCascade remove os agendamentos do cliente e depois o
// cliente, na mesma transação. Retorna quantos agendamentos caíram.
func (r *AgendaGormRepository) DeleteClientCascade(
	ctx context.Context,
	accountID uuid.UUID,
	clientID uuid.UUID,
) (int64, error) {

	var removed int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("account_id = ? AND client_id = ?", accountID, clientID).
			Delete(&models.Appointment{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		return tx.
			Where("account_id = ? AND id = ?", accountID, clientID).
			Delete(&models.Client{}).Error
	})

	return removed, err
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AgendaGormRepository) PageAppointments(
	ctx context.Context,
	filter domain.ListFilter,
	offset int,
	limit int,
) ([]models.Appointment, error) {

	q := store.Query{
		Filters: []store.Filter{
			store.Eq("account_id", filter.AccountID),
		},
		OrderBy: "start_time",
		Offset:  offset,
		Limit:   limit,
	}

	if filter.From != nil {
		q.Filters = append(q.Filters, store.Gte("start_time", *filter.From))
	}
	if filter.To != nil {
		q.Filters = append(q.Filters, store.Lte("start_time", *filter.To))
	}
	if filter.ClientID != nil {
		q.Filters = append(q.Filters, store.Eq("client_id", *filter.ClientID))
	}

	var apps []models.Appointment
	if err := r.store.List(ctx, &apps, q); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AgendaGormRepository) GetAppointment(
	ctx context.Context,
	accountID uuid.UUID,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

func (r *AgendaGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	err := r.db.WithContext(ctx).Create(ap).Error
	return mapSlotConflict(err)
}

func (r *AgendaGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	err := r.db.WithContext(ctx).Save(ap).Error
	return mapSlotConflict(err)
}

// UpdateAppointmentFields persiste apenas os campos informados e
// devolve o registro atualizado.
func (r *AgendaGormRepository) UpdateAppointmentFields(
	ctx context.Context,
	accountID uuid.UUID,
	id uuid.UUID,
	fields map[string]any,
) (*models.Appointment, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND account_id = ?", id, accountID).
		Updates(fields)

	if res.Error != nil {
		return nil, mapSlotConflict(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.GetAppointment(ctx, accountID, id)
}

func (r *AgendaGormRepository) DeleteAppointment(
	ctx context.Context,
	accountID uuid.UUID,
	id uuid.UUID,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		Delete(&models.Appointment{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *AgendaGormRepository) SlotTaken(
	ctx context.Context,
	accountID uuid.UUID,
	start time.Time,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"account_id = ? AND start_time = ? AND status <> ?",
			accountID, start, string(domain.StatusCancelled),
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *AgendaGormRepository) ListOccupiedTimes(
	ctx context.Context,
	accountID uuid.UUID,
	dayStart time.Time,
	dayEnd time.Time,
) ([]time.Time, error) {

	var apps []models.Appointment
	err := r.store.List(ctx, &apps, store.Query{
		Filters: []store.Filter{
			store.Eq("account_id", accountID),
			store.Gte("start_time", dayStart),
			store.Lte("start_time", dayEnd),
			store.In("status", []string{
				string(domain.StatusScheduled),
				string(domain.StatusPaid),
				string(domain.StatusToCharge),
			}),
		},
		OrderBy: "start_time",
	})
	if err != nil {
		return nil, err
	}

	out := make([]time.Time, 0, len(apps))
	for _, ap := range apps {
		out = append(out, ap.StartTime)
	}
	return out, nil
}

// --------------------------------------------------
// Entity cache source
// --------------------------------------------------

func (r *AgendaGormRepository) ListClientsByIDs(
	ctx context.Context,
	accountID uuid.UUID,
	ids []uuid.UUID,
) ([]models.Client, error) {

	var clients []models.Client
	err := r.store.List(ctx, &clients, store.Query{
		Filters: []store.Filter{
			store.Eq("account_id", accountID),
			store.In("id", ids),
		},
	})
	return clients, err
}

func (r *AgendaGormRepository) ListModalitiesByIDs(
	ctx context.Context,
	accountID uuid.UUID,
	ids []uuid.UUID,
) ([]models.Modality, error) {

	var mods []models.Modality
	err := r.store.List(ctx, &mods, store.Query{
		Filters: []store.Filter{
			store.Eq("account_id", accountID),
			store.In("id", ids),
		},
	})
	return mods, err
}

// mapSlotConflict traduz a violação do índice único parcial de slot
// (account_id, start_time com status ativo) para o erro de negócio.
func mapSlotConflict(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return httperr.ErrBusiness("slot_taken")
	}
	return err
}

// Compile-time checks
var (
	_ domain.Repository = (*AgendaGormRepository)(nil)
	_ cache.Source      = (*AgendaGormRepository)(nil)
)
