package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/store"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

// ======================================================
// FINANCIAL SUMMARY
// ======================================================

type FinancialSummaryInput struct {
	AccountID uuid.UUID
	From      *time.Time
	To        *time.Time
}

type FinancialSummary struct {
	repo domain.Repository
}

func NewFinancialSummary(repo domain.Repository) *FinancialSummary {
	return &FinancialSummary{repo: repo}
}

func (uc *FinancialSummary) Execute(
	ctx context.Context,
	in FinancialSummaryInput,
) (domain.Summary, error) {

	acc, err := uc.repo.GetAccountByID(ctx, in.AccountID)
	if err != nil {
		return domain.Summary{}, err
	}

	filter := domain.ListFilter{
		AccountID: in.AccountID,
		From:      in.From,
		To:        in.To,
	}

	result, err := store.DrainAll(ctx, func(ctx context.Context, offset, limit int) ([]models.Appointment, error) {
		return uc.repo.PageAppointments(ctx, filter, offset, limit)
	})
	if err != nil {
		return domain.Summary{}, err
	}

	now := timezone.NowIn(acc.Timezone)
	return domain.Summarize(result.Rows, now), nil
}
