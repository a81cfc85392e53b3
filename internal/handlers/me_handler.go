package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	accountIDVal, exists := c.Get(middleware.ContextAccountID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account_not_in_context"})
		return
	}

	accountID, ok := accountIDVal.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_account_id_type"})
		return
	}

	var acc models.Account
	if err := h.db.First(&acc, "id = ?", accountID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "account_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account": gin.H{
			"id":         acc.ID,
			"name":       acc.Name,
			"email":      acc.Email,
			"phone":      acc.Phone,
			"slug":       acc.Slug,
			"timezone":   acc.Timezone,
			"work_start": acc.WorkStart,
			"work_end":   acc.WorkEnd,
		},
	})
}

type UpdateMeRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Timezone  *string `json:"timezone"`
	WorkStart *string `json:"work_start"`
	WorkEnd   *string `json:"work_end"`
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Timezone != nil {
		fields["timezone"] = *req.Timezone
	}
	if req.WorkStart != nil {
		fields["work_start"] = *req.WorkStart
	}
	if req.WorkEnd != nil {
		fields["work_end"] = *req.WorkEnd
	}

	if len(fields) > 0 {
		if err := h.db.
			Model(&models.Account{}).
			Where("id = ?", accountID).
			Updates(fields).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_account"})
			return
		}
	}

	h.GetMe(c)
}
