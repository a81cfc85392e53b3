package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/querycache"
)

type DeleteAppointment struct {
	repo    domain.Repository
	queries *querycache.Cache
	audit   *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	queries *querycache.Cache,
	auditD *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:    repo,
		queries: queries,
		audit:   auditD,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	accountID uuid.UUID,
	appointmentID uuid.UUID,
) error {

	if _, err := uc.repo.GetAppointment(ctx, accountID, appointmentID); err != nil {
		return httperr.ErrBusiness("appointment_not_found")
	}

	if err := uc.repo.DeleteAppointment(ctx, accountID, appointmentID); err != nil {
		return err
	}

	_ = uc.queries.Invalidate(ctx, accountID) // cache velho expira sozinho

	uc.audit.Dispatch(audit.Event{
		AccountID: accountID,
		Action:    "appointment_deleted",
		Entity:    "appointment",
		EntityID:  &appointmentID,
	})

	return nil
}
