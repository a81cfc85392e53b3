package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/httpresp"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	ucAppointment "github.com/BruksfildServices01/agenda-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	fetchUC    *ucAppointment.FetchAppointments
	createUC   *ucAppointment.CreateAppointment
	updateUC   *ucAppointment.UpdateAppointment
	deleteUC   *ucAppointment.DeleteAppointment
	cancelUC   *ucAppointment.CancelAppointment
	markPaidUC *ucAppointment.MarkAppointmentPaid
	summaryUC  *ucAppointment.FinancialSummary
}

func NewAppointmentHandler(
	db *gorm.DB,
	fetchUC *ucAppointment.FetchAppointments,
	createUC *ucAppointment.CreateAppointment,
	updateUC *ucAppointment.UpdateAppointment,
	deleteUC *ucAppointment.DeleteAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	markPaidUC *ucAppointment.MarkAppointmentPaid,
	summaryUC *ucAppointment.FinancialSummary,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:         db,
		fetchUC:    fetchUC,
		createUC:   createUC,
		updateUC:   updateUC,
		deleteUC:   deleteUC,
		cancelUC:   cancelUC,
		markPaidUC: markPaidUC,
		summaryUC:  summaryUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientID   *uuid.UUID `json:"client_id"`
	ModalityID uuid.UUID  `json:"modality_id" binding:"required"`

	Date string `json:"date" binding:"required"` // YYYY-MM-DD
	Time string `json:"time" binding:"required"` // HH:mm

	Complimentary bool     `json:"complimentary"`
	Value         *float64 `json:"value"`
	Notes         string   `json:"notes"`
	Repeat        int      `json:"repeat"`
}

type UpdateAppointmentRequest struct {
	Date *string `json:"date"`
	Time *string `json:"time"`

	Status        *string    `json:"status"`
	ModalityID    *uuid.UUID `json:"modality_id"`
	Value         *float64   `json:"value"`
	Complimentary *bool      `json:"complimentary"`
	Notes         *string    `json:"notes"`
}

// ======================================================
// HELPERS
// ======================================================

// período a partir de ?date= (dia único) ou ?from=/&to=
func (h *AppointmentHandler) parsePeriod(
	c *gin.Context,
	acc *models.Account,
) (*time.Time, *time.Time, bool) {

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := parseDateInAccount(acc, dateStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return nil, nil, false
		}
		start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		end := start.Add(24 * time.Hour)
		return &start, &end, true
	}

	var from, to *time.Time

	if fromStr := c.Query("from"); fromStr != "" {
		f, err := parseDateInAccount(acc, fromStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return nil, nil, false
		}
		from = &f
	}

	if toStr := c.Query("to"); toStr != "" {
		t, err := parseDateInAccount(acc, toStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return nil, nil, false
		}
		end := t.Add(24 * time.Hour)
		to = &end
	}

	return from, to, true
}

func (h *AppointmentHandler) loadAccount(c *gin.Context) (*models.Account, bool) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	var acc models.Account
	if err := h.db.First(&acc, "id = ?", accountID).Error; err != nil {
		httperr.Internal(c, "account_not_found", "Conta não encontrada.")
		return nil, false
	}
	return &acc, true
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	acc, ok := h.loadAccount(c)
	if !ok {
		return
	}

	from, to, ok := h.parsePeriod(c, acc)
	if !ok {
		return
	}

	views, err := h.fetchUC.Execute(c.Request.Context(), ucAppointment.FetchAppointmentsInput{
		AccountID: acc.ID,
		From:      from,
		To:        to,
	})
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, views)
}

// ======================================================
// SUMMARY (cards financeiros)
// ======================================================

func (h *AppointmentHandler) Summary(c *gin.Context) {
	acc, ok := h.loadAccount(c)
	if !ok {
		return
	}

	from, to, ok := h.parsePeriod(c, acc)
	if !ok {
		return
	}

	summary, err := h.summaryUC.Execute(c.Request.Context(), ucAppointment.FinancialSummaryInput{
		AccountID: acc.ID,
		From:      from,
		To:        to,
	})
	if err != nil {
		httperr.Internal(c, "failed_to_summarize", "Erro ao calcular resumo.")
		return
	}

	httpresp.OK(c, summary)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	created, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		AccountID:     accountID,
		ClientID:      req.ClientID,
		ModalityID:    req.ModalityID,
		Date:          req.Date,
		Time:          req.Time,
		Complimentary: req.Complimentary,
		Value:         req.Value,
		Notes:         req.Notes,
		Repeat:        req.Repeat,
	})
	if err != nil {
		writeBusinessError(c, err, "failed_to_create_appointment", "Erro ao criar agendamento.")
		return
	}

	c.JSON(201, gin.H{
		"appointments": created,
		"total":        len(created),
	})
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	updated, err := h.updateUC.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		AccountID:     accountID,
		ID:            id,
		Date:          req.Date,
		Time:          req.Time,
		Status:        req.Status,
		ModalityID:    req.ModalityID,
		Value:         req.Value,
		Complimentary: req.Complimentary,
		Notes:         req.Notes,
	})
	if err != nil {
		writeBusinessError(c, err, "failed_to_update_appointment", "Erro ao atualizar agendamento.")
		return
	}

	c.JSON(200, updated)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), accountID, id); err != nil {
		writeBusinessError(c, err, "failed_to_delete_appointment", "Erro ao excluir agendamento.")
		return
	}

	c.JSON(200, gin.H{"status": "deleted"})
}

// ======================================================
// CANCEL / MARK PAID
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), accountID, id)
	if err != nil {
		writeBusinessError(c, err, "failed_to_cancel_appointment", "Erro ao cancelar agendamento.")
		return
	}

	c.JSON(200, ap)
}

func (h *AppointmentHandler) MarkPaid(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.markPaidUC.Execute(c.Request.Context(), accountID, id)
	if err != nil {
		writeBusinessError(c, err, "failed_to_mark_paid", "Erro ao marcar como pago.")
		return
	}

	c.JSON(200, ap)
}
