package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/cache"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/querycache"
)

// ======================================================
// INPUT
// ======================================================

type DeleteClientInput struct {
	AccountID uuid.UUID
	ClientID  uuid.UUID

	// Nome digitado pelo operador; precisa bater exatamente com o nome
	// do cliente sempre que houver agendamentos dependentes.
	ConfirmName string
}

type DeleteClientOutput struct {
	RemovedAppointments int64 `json:"removed_appointments"`
}

// ======================================================
// USE CASE
// ======================================================

// DeleteClient remove o cliente em cascata: todos os agendamentos que o
// referenciam caem junto, na mesma transação. A operação é recusada até
// o operador confirmar digitando o nome exato do cliente.
type DeleteClient struct {
	repo     domain.Repository
	entities *cache.EntityCache
	queries  *querycache.Cache
	audit    *audit.Dispatcher
}

func NewDeleteClient(
	repo domain.Repository,
	entities *cache.EntityCache,
	queries *querycache.Cache,
	auditD *audit.Dispatcher,
) *DeleteClient {
	return &DeleteClient{
		repo:     repo,
		entities: entities,
		queries:  queries,
		audit:    auditD,
	}
}

func (uc *DeleteClient) Execute(
	ctx context.Context,
	in DeleteClientInput,
) (*DeleteClientOutput, error) {

	cl, err := uc.repo.GetClient(ctx, in.AccountID, in.ClientID)
	if err != nil {
		return nil, httperr.ErrBusiness("client_not_found")
	}

	dependents, err := uc.repo.CountClientAppointments(ctx, in.AccountID, in.ClientID)
	if err != nil {
		return nil, err
	}

	if dependents > 0 {
		if in.ConfirmName == "" {
			return nil, httperr.ErrBusiness("confirmation_required")
		}
		if in.ConfirmName != cl.Name {
			return nil, httperr.ErrBusiness("confirmation_mismatch")
		}
	}

	removed, err := uc.repo.DeleteClientCascade(ctx, in.AccountID, in.ClientID)
	if err != nil {
		return nil, err
	}

	uc.entities.RemoveClient(in.AccountID, in.ClientID)
	_ = uc.queries.Invalidate(ctx, in.AccountID) // cache velho expira sozinho

	uc.audit.Dispatch(audit.Event{
		AccountID: in.AccountID,
		Action:    "client_deleted",
		Entity:    "client",
		EntityID:  &in.ClientID,
		Metadata: map[string]any{
			"removed_appointments": removed,
		},
	})

	return &DeleteClientOutput{RemovedAppointments: removed}, nil
}
