package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/querycache"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

type CancelAppointment struct {
	repo    domain.Repository
	queries *querycache.Cache
	audit   *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	queries *querycache.Cache,
	auditD *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:    repo,
		queries: queries,
		audit:   auditD,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	accountID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	acc, err := uc.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, accountID, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	now := timezone.NowIn(acc.Timezone)
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	_ = uc.queries.Invalidate(ctx, accountID) // cache velho expira sozinho

	uc.audit.Dispatch(audit.Event{
		AccountID: accountID,
		Action:    "appointment_cancelled",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}
