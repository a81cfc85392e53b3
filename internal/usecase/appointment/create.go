package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/cache"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/querycache"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	AccountID uuid.UUID

	ClientID   *uuid.UUID
	ModalityID uuid.UUID

	Date string
	Time string

	Complimentary bool
	Value         *float64
	Notes         string

	// Ocorrências semanais; 0 ou 1 = agendamento único
	Repeat int
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	entities *cache.EntityCache
	queries  *querycache.Cache
	audit    *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	entities *cache.EntityCache,
	queries *querycache.Cache,
	auditD *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		entities: entities,
		queries:  queries,
		audit:    auditD,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) ([]models.Appointment, error) {

	acc, err := uc.repo.GetAccountByID(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(acc.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// Modalidade precisa existir e pertencer à conta
	modality, err := uc.repo.GetModality(ctx, in.AccountID, in.ModalityID)
	if err != nil {
		return nil, httperr.ErrBusiness("modality_not_found")
	}
	uc.entities.PutModality(in.AccountID, *modality)

	value, err := resolveValue(in.Complimentary, in.Value, modality.Price)
	if err != nil {
		return nil, err
	}

	occurrences := in.Repeat
	if occurrences < 1 {
		occurrences = 1
	}

	var recurrenceID *uuid.UUID
	if occurrences > 1 {
		id := uuid.New()
		recurrenceID = &id
	}

	created := make([]models.Appointment, 0, occurrences)

	for i := 0; i < occurrences; i++ {
		ap := models.Appointment{
			AccountID:     in.AccountID,
			ClientID:      in.ClientID,
			ModalityID:    &modality.ID,
			ModalityName:  modality.Name,
			StartTime:     start.AddDate(0, 0, 7*i),
			Status:        string(domain.InitialStatus()),
			Value:         value,
			Complimentary: in.Complimentary,
			RecurrenceID:  recurrenceID,
			BookingSource: domain.SourceManual,
			PaymentStatus: domain.PaymentNotRequired,
			Notes:         in.Notes,
		}

		if err := uc.repo.CreateAppointment(ctx, &ap); err != nil {
			// Ocorrência recorrente em slot ocupado é pulada;
			// colisão na primeira derruba a operação inteira.
			if httperr.IsBusiness(err, "slot_taken") && i > 0 {
				continue
			}
			return nil, err
		}

		created = append(created, ap)
	}

	_ = uc.queries.Invalidate(ctx, in.AccountID) // cache velho expira sozinho

	for i := range created {
		uc.audit.Dispatch(audit.Event{
			AccountID: in.AccountID,
			Action:    "appointment_created",
			Entity:    "appointment",
			EntityID:  &created[i].ID,
		})
	}

	return created, nil
}

// resolveValue: cortesia força 0 independentemente do preço da
// modalidade; senão vale o override explícito; senão o preço.
func resolveValue(complimentary bool, override *float64, price float64) (float64, error) {
	if complimentary {
		return 0, nil
	}
	if override != nil {
		if *override < 0 {
			return 0, httperr.ErrBusiness("invalid_value")
		}
		return *override, nil
	}
	return price, nil
}
