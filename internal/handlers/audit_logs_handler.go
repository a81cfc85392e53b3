package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/store"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	store *store.Store
}

func NewAuditLogsHandler(st *store.Store) *AuditLogsHandler {
	return &AuditLogsHandler{store: st}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := store.Query{
		Filters: auditFilters(c, accountID),
		OrderBy: "created_at",
		Desc:    true,
		Offset:  (page - 1) * limit,
		Limit:   limit,
	}

	total, err := h.store.Count(c.Request.Context(), &models.AuditLog{}, q)
	if err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	var logs []models.AuditLog
	if err := h.store.List(c.Request.Context(), &logs, q); err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}

// auditFilters monta os filtros da listagem; o da conta é obrigatório,
// os demais entram só quando o parâmetro é válido.
func auditFilters(c *gin.Context, accountID uuid.UUID) []store.Filter {
	filters := []store.Filter{store.Eq("account_id", accountID)}

	if action := c.Query("action"); action != "" {
		filters = append(filters, store.Eq("action", action))
	}
	if entity := c.Query("entity"); entity != "" {
		filters = append(filters, store.Eq("entity", entity))
	}
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filters = append(filters, store.Gte("created_at", from))
	}
	// "to" é inclusivo: cobre o dia inteiro informado
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		filters = append(filters, store.Lte("created_at", to.Add(24*time.Hour)))
	}

	return filters
}
