package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/cache"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	ucAppointment "github.com/BruksfildServices01/agenda-api/internal/usecase/appointment"
	ucClient "github.com/BruksfildServices01/agenda-api/internal/usecase/client"
)

type ClientHandler struct {
	db       *gorm.DB
	entities *cache.EntityCache
	fetchUC  *ucAppointment.FetchAppointments
	deleteUC *ucClient.DeleteClient
}

func NewClientHandler(
	db *gorm.DB,
	entities *cache.EntityCache,
	fetchUC *ucAppointment.FetchAppointments,
	deleteUC *ucClient.DeleteClient,
) *ClientHandler {
	return &ClientHandler{
		db:       db,
		entities: entities,
		fetchUC:  fetchUC,
		deleteUC: deleteUC,
	}
}

// ======================================================
// LIST CLIENTS
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("account_id = ?", accountID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.
		Order("created_at DESC").
		Find(&clients).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed_to_list_clients",
		})
		return
	}

	c.JSON(http.StatusOK, clients)
}

// ======================================================
// CREATE / UPDATE
// ======================================================

type ClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (h *ClientHandler) Create(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	cl := models.Client{
		AccountID: accountID,
		Name:      strings.TrimSpace(req.Name),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
	}

	if err := h.db.Create(&cl).Error; err != nil {
		httperr.Internal(c, "failed_to_create_client", "Erro ao criar cliente.")
		return
	}

	h.entities.PutClient(accountID, cl)

	c.JSON(http.StatusCreated, cl)
}

func (h *ClientHandler) Update(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var cl models.Client
	if err := h.db.
		Where("account_id = ? AND id = ?", accountID, id).
		First(&cl).Error; err != nil {

		httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
		return
	}

	cl.Name = strings.TrimSpace(req.Name)
	cl.Phone = strings.TrimSpace(req.Phone)
	cl.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := h.db.Save(&cl).Error; err != nil {
		httperr.Internal(c, "failed_to_update_client", "Erro ao atualizar cliente.")
		return
	}

	// o cache precisa enxergar o nome novo na próxima listagem
	h.entities.PutClient(accountID, cl)

	c.JSON(http.StatusOK, cl)
}

// ======================================================
// BOOKINGS DO CLIENTE
// ======================================================
func (h *ClientHandler) Bookings(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	views, err := h.fetchUC.Execute(c.Request.Context(), ucAppointment.FetchAppointmentsInput{
		AccountID: accountID,
		ClientID:  &id,
	})
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Erro ao listar agendamentos do cliente.")
		return
	}

	c.JSON(http.StatusOK, views)
}

// ======================================================
// DELETE (cascata, com confirmação por nome)
// ======================================================

type DeleteClientRequest struct {
	ConfirmName string `json:"confirm_name"`
}

func (h *ClientHandler) Delete(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req DeleteClientRequest
	// corpo é opcional quando o cliente não tem agendamentos
	_ = c.ShouldBindJSON(&req)

	out, err := h.deleteUC.Execute(c.Request.Context(), ucClient.DeleteClientInput{
		AccountID:   accountID,
		ClientID:    id,
		ConfirmName: req.ConfirmName,
	})
	if err != nil {
		writeBusinessError(c, err, "failed_to_delete_client", "Erro ao excluir cliente.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":               "deleted",
		"removed_appointments": out.RemovedAppointments,
	})
}
