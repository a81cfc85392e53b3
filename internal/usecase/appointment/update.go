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

// Campos nil não são persistidos.
type UpdateAppointmentInput struct {
	AccountID uuid.UUID
	ID        uuid.UUID

	Date *string
	Time *string

	Status        *string
	ModalityID    *uuid.UUID
	Value         *float64
	Complimentary *bool
	Notes         *string
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	repo     domain.Repository
	entities *cache.EntityCache
	queries  *querycache.Cache
	audit    *audit.Dispatcher
}

func NewUpdateAppointment(
	repo domain.Repository,
	entities *cache.EntityCache,
	queries *querycache.Cache,
	auditD *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:     repo,
		entities: entities,
		queries:  queries,
		audit:    auditD,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	acc, err := uc.repo.GetAccountByID(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	current, err := uc.repo.GetAppointment(ctx, in.AccountID, in.ID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	fields := map[string]any{}

	// ---------- reagendamento ----------
	if in.Date != nil || in.Time != nil {
		if in.Date == nil || in.Time == nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
		start, err := time.ParseInLocation(
			"2006-01-02 15:04",
			*in.Date+" "+*in.Time,
			timezone.Location(acc.Timezone),
		)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
		fields["start_time"] = start
	}

	// ---------- status ----------
	if in.Status != nil {
		if !domain.IsPersistable(domain.Status(*in.Status)) {
			return nil, httperr.ErrBusiness("invalid_status")
		}
		fields["status"] = *in.Status
	}

	// ---------- cortesia ----------
	complimentary := current.Complimentary
	if in.Complimentary != nil {
		complimentary = *in.Complimentary
		fields["complimentary"] = complimentary
	}

	// ---------- modalidade (re-resolve preço, cache primeiro) ----------
	var newPrice *float64
	if in.ModalityID != nil {
		modality, err := uc.resolveModality(ctx, in.AccountID, *in.ModalityID)
		if err != nil {
			return nil, err
		}
		fields["modality_id"] = modality.ID
		fields["modality_name"] = modality.Name
		newPrice = &modality.Price
	}

	// ---------- valor ----------
	switch {
	case complimentary:
		fields["value"] = float64(0)
	case in.Value != nil:
		if *in.Value < 0 {
			return nil, httperr.ErrBusiness("invalid_value")
		}
		fields["value"] = *in.Value
	case newPrice != nil:
		// troca de modalidade sem override sobrescreve o valor
		fields["value"] = *newPrice
	}

	if in.Notes != nil {
		fields["notes"] = *in.Notes
	}

	if len(fields) == 0 {
		return current, nil
	}

	updated, err := uc.repo.UpdateAppointmentFields(ctx, in.AccountID, in.ID, fields)
	if err != nil {
		return nil, err
	}

	_ = uc.queries.Invalidate(ctx, in.AccountID) // cache velho expira sozinho

	uc.audit.Dispatch(audit.Event{
		AccountID: in.AccountID,
		Action:    "appointment_updated",
		Entity:    "appointment",
		EntityID:  &updated.ID,
	})

	return updated, nil
}

// resolveModality tenta o cache de entidades antes do store.
func (uc *UpdateAppointment) resolveModality(
	ctx context.Context,
	accountID uuid.UUID,
	modalityID uuid.UUID,
) (*models.Modality, error) {

	cached, err := uc.entities.ResolveModalities(ctx, accountID, []uuid.UUID{modalityID})
	if err == nil {
		if m, ok := cached[modalityID]; ok {
			return &m, nil
		}
	}

	modality, err := uc.repo.GetModality(ctx, accountID, modalityID)
	if err != nil {
		return nil, httperr.ErrBusiness("modality_not_found")
	}
	uc.entities.PutModality(accountID, *modality)

	return modality, nil
}
