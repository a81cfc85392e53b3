package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/models"
)

// ListFilter descreve o recorte de agendamentos lido do store.
type ListFilter struct {
	AccountID uuid.UUID
	From      *time.Time
	To        *time.Time
	ClientID  *uuid.UUID
}

type Repository interface {
	// -------- Account --------
	GetAccountByID(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Account, error)

	GetAccountBySlug(
		ctx context.Context,
		slug string,
	) (*models.Account, error)

	// -------- Modality --------
	GetModality(
		ctx context.Context,
		accountID uuid.UUID,
		modalityID uuid.UUID,
	) (*models.Modality, error)

	// -------- Client --------
	GetClient(
		ctx context.Context,
		accountID uuid.UUID,
		clientID uuid.UUID,
	) (*models.Client, error)

	FindClientByEmail(
		ctx context.Context,
		accountID uuid.UUID,
		email string,
	) (*models.Client, error)

	CreateClient(
		ctx context.Context,
		client *models.Client,
	) error

	CountClientAppointments(
		ctx context.Context,
		accountID uuid.UUID,
		clientID uuid.UUID,
	) (int64, error)

	DeleteClientCascade(
		ctx context.Context,
		accountID uuid.UUID,
		clientID uuid.UUID,
	) (int64, error)

	// -------- Appointment (read) --------
	PageAppointments(
		ctx context.Context,
		filter ListFilter,
		offset int,
		limit int,
	) ([]models.Appointment, error)

	GetAppointment(
		ctx context.Context,
		accountID uuid.UUID,
		id uuid.UUID,
	) (*models.Appointment, error)

	// -------- Appointment (write) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointmentFields(
		ctx context.Context,
		accountID uuid.UUID,
		id uuid.UUID,
		fields map[string]any,
	) (*models.Appointment, error)

	DeleteAppointment(
		ctx context.Context,
		accountID uuid.UUID,
		id uuid.UUID,
	) error

	// -------- Slots --------
	SlotTaken(
		ctx context.Context,
		accountID uuid.UUID,
		start time.Time,
	) (bool, error)

	ListOccupiedTimes(
		ctx context.Context,
		accountID uuid.UUID,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]time.Time, error)
}
