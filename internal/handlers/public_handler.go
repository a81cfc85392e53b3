package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	ucBooking "github.com/BruksfildServices01/agenda-api/internal/usecase/booking"
)

// PublicHandler atende o portal de reservas: tudo aqui é acessado por
// slug, sem autenticação.
type PublicHandler struct {
	db        *gorm.DB
	bookingUC *ucBooking.CreatePublicBooking
	hoursUC   *ucBooking.AvailableHours
}

func NewPublicHandler(
	db *gorm.DB,
	bookingUC *ucBooking.CreatePublicBooking,
	hoursUC *ucBooking.AvailableHours,
) *PublicHandler {
	return &PublicHandler{
		db:        db,
		bookingUC: bookingUC,
		hoursUC:   hoursUC,
	}
}

// ======================================================
// INFO DA AGENDA
// ======================================================
func (h *PublicHandler) GetAccount(c *gin.Context) {
	slug := c.Param("slug")

	var acc models.Account
	if err := h.db.Where("slug = ?", slug).First(&acc).Error; err != nil {
		httperr.NotFound(c, "account_not_found", "Agenda não encontrada.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":       acc.Name,
		"slug":       acc.Slug,
		"timezone":   acc.Timezone,
		"work_start": acc.WorkStart,
		"work_end":   acc.WorkEnd,
	})
}

// ======================================================
// MODALIDADES VISÍVEIS NO PORTAL
// ======================================================
func (h *PublicHandler) ListModalities(c *gin.Context) {
	slug := c.Param("slug")

	var acc models.Account
	if err := h.db.Where("slug = ?", slug).First(&acc).Error; err != nil {
		httperr.NotFound(c, "account_not_found", "Agenda não encontrada.")
		return
	}

	var modalities []models.Modality
	if err := h.db.
		Where("account_id = ? AND active = ?", acc.ID, true).
		Order("name ASC").
		Find(&modalities).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_modalities"})
		return
	}

	c.JSON(http.StatusOK, modalities)
}

// ======================================================
// HORÁRIOS LIVRES
// ======================================================
func (h *PublicHandler) AvailableHours(c *gin.Context) {
	slug := c.Param("slug")
	date := c.Query("date")

	if date == "" {
		httperr.BadRequest(c, "invalid_date", "Informe a data (?date=YYYY-MM-DD).")
		return
	}

	hours, err := h.hoursUC.Execute(c.Request.Context(), ucBooking.AvailableHoursInput{
		Slug: slug,
		Date: date,
	})
	if err != nil {
		writeBusinessError(c, err, "failed_to_list_hours", "Erro ao listar horários.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"hours": hours})
}

// ======================================================
// RESERVA ONLINE
// ======================================================

type PublicBookingRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientEmail string `json:"client_email" binding:"required,email"`
	ClientPhone string `json:"client_phone"`

	ModalityID string `json:"modality_id" binding:"required"`

	Date string `json:"date" binding:"required"` // YYYY-MM-DD
	Time string `json:"time" binding:"required"` // HH:mm
}

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	slug := c.Param("slug")

	var req PublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	out, err := h.bookingUC.Execute(c.Request.Context(), ucBooking.CreatePublicBookingInput{
		Slug:        slug,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		ModalityID:  req.ModalityID,
		Date:        req.Date,
		Time:        req.Time,
	})
	if err != nil {
		writeBusinessError(c, err, "failed_to_create_booking", "Erro ao criar reserva.")
		return
	}

	c.JSON(http.StatusCreated, out)
}
