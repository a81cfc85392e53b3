package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/cache"
	"github.com/BruksfildServices01/agenda-api/internal/config"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/querycache"
	"github.com/BruksfildServices01/agenda-api/internal/validators"
)

type AuthHandler struct {
	db       *gorm.DB
	config   *config.Config
	entities *cache.EntityCache
	queries  *querycache.Cache
}

func NewAuthHandler(
	db *gorm.DB,
	cfg *config.Config,
	entities *cache.EntityCache,
	queries *querycache.Cache,
) *AuthHandler {
	return &AuthHandler{
		db:       db,
		config:   cfg,
		entities: entities,
		queries:  queries,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Timezone string `json:"timezone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if !validators.IsEmailDomainValid(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_email_domain"})
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))

	var count int64
	h.db.Model(&models.Account{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug_already_exists"})
		return
	}

	h.db.Model(&models.Account{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email_already_exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	acc := models.Account{
		Name:         req.Name,
		Slug:         slug,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Timezone:     req.Timezone,
	}

	if err := h.db.Create(&acc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_account"})
		return
	}

	token, err := h.issueToken(acc.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_sign_token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"account": gin.H{
			"id":    acc.ID,
			"name":  acc.Name,
			"email": acc.Email,
			"slug":  acc.Slug,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	var acc models.Account
	if err := h.db.Where("email = ?", req.Email).First(&acc).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(acc.PasswordHash),
		[]byte(req.Password),
	); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	token, err := h.issueToken(acc.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_sign_token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"account": gin.H{
			"id":    acc.ID,
			"name":  acc.Name,
			"email": acc.Email,
			"slug":  acc.Slug,
		},
	})
}

// Logout descarta os caches da sessão da conta (entidades + queries).
func (h *AuthHandler) Logout(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uuid.UUID)

	h.entities.Flush(accountID)
	_ = h.queries.Invalidate(c.Request.Context(), accountID)

	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

func (h *AuthHandler) issueToken(accountID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub": accountID.String(),
		"exp": time.Now().Add(72 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
