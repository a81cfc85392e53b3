package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/cache"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/media"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type ModalityHandler struct {
	db       *gorm.DB
	entities *cache.EntityCache
	storage  *media.Storage
}

func NewModalityHandler(db *gorm.DB, entities *cache.EntityCache, storage *media.Storage) *ModalityHandler {
	return &ModalityHandler{
		db:       db,
		entities: entities,
		storage:  storage,
	}
}

// --------- Requests ---------

type CreateModalityRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
	DurationMin int     `json:"duration_min"`
}

type UpdateModalityRequest struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------
func (h *ModalityHandler) List(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	activeStr := strings.TrimSpace(c.Query("active")) // "true", "false" ou vazio
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("account_id = ?", accountID)

	if activeStr != "" {
		if activeStr == "true" {
			q = q.Where("active = ?", true)
		} else if activeStr == "false" {
			q = q.Where("active = ?", false)
		}
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ?", like)
	}

	var modalities []models.Modality
	if err := q.
		Order("name ASC").
		Find(&modalities).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_modalities"})
		return
	}

	c.JSON(http.StatusOK, modalities)
}

func (h *ModalityHandler) Create(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	var req CreateModalityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Price < 0 {
		httperr.BadRequest(c, "invalid_value", "Valor inválido.")
		return
	}

	modality := models.Modality{
		AccountID:   accountID,
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		DurationMin: req.DurationMin,
		Active:      true,
	}
	if modality.DurationMin <= 0 {
		modality.DurationMin = 60
	}

	if err := h.db.Create(&modality).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_modality"})
		return
	}

	h.entities.PutModality(accountID, modality)

	c.JSON(http.StatusCreated, modality)
}

func (h *ModalityHandler) Update(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var modality models.Modality
	if err := h.db.
		Where("id = ? AND account_id = ?", id, accountID).
		First(&modality).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "modality_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_modality"})
		return
	}

	var req UpdateModalityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		modality.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			httperr.BadRequest(c, "invalid_value", "Valor inválido.")
			return
		}
		modality.Price = *req.Price
	}
	if req.DurationMin != nil {
		modality.DurationMin = *req.DurationMin
	}
	if req.Active != nil {
		modality.Active = *req.Active
	}

	if err := h.db.Save(&modality).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_modality"})
		return
	}

	h.entities.PutModality(accountID, modality)

	c.JSON(http.StatusOK, modality)
}

// ======================================================
// UPLOAD DE IMAGEM
// ======================================================
func (h *ModalityHandler) UploadImage(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	if !h.storage.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage_not_configured"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var modality models.Modality
	if err := h.db.
		Where("id = ? AND account_id = ?", id, accountID).
		First(&modality).Error; err != nil {

		c.JSON(http.StatusNotFound, gin.H{"error": "modality_not_found"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "Envie o arquivo no campo 'image'.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_read_image"})
		return
	}
	defer file.Close()

	url, err := h.storage.UploadModalityImage(c.Request.Context(), accountID, modality.ID, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_upload_image"})
		return
	}

	if err := h.db.
		Model(&modality).
		Update("image_url", url).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_modality"})
		return
	}

	modality.ImageURL = url
	h.entities.PutModality(accountID, modality)

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}
