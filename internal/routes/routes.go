package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/cache"
	"github.com/BruksfildServices01/agenda-api/internal/config"
	"github.com/BruksfildServices01/agenda-api/internal/handlers"
	infraRepo "github.com/BruksfildServices01/agenda-api/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-api/internal/media"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/payments"
	"github.com/BruksfildServices01/agenda-api/internal/querycache"
	"github.com/BruksfildServices01/agenda-api/internal/store"
	ucAppointment "github.com/BruksfildServices01/agenda-api/internal/usecase/appointment"
	ucBooking "github.com/BruksfildServices01/agenda-api/internal/usecase/booking"
	ucClient "github.com/BruksfildServices01/agenda-api/internal/usecase/client"
)

// Deps reúne o que o main monta e as rotas consomem. Redis, checkout e
// storage podem vir nil: os componentes degradam sem eles.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Redis    *redis.Client
	Checkout payments.Checkout
	Storage  *media.Storage
	Logger   *slog.Logger
}

func RegisterRoutes(r *gin.Engine, deps Deps) {

	db := deps.DB
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	st := store.New(db)
	repo := infraRepo.NewAgendaGormRepository(db, st)

	entities := cache.New(repo)
	queries := querycache.New(deps.Redis)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	fetchAppointmentsUC := ucAppointment.NewFetchAppointments(
		repo,
		entities,
		queries,
		logger,
	)

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		repo,
		entities,
		queries,
		auditDispatcher,
	)

	updateAppointmentUC := ucAppointment.NewUpdateAppointment(
		repo,
		entities,
		queries,
		auditDispatcher,
	)

	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(
		repo,
		queries,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		repo,
		queries,
		auditDispatcher,
	)

	markPaidUC := ucAppointment.NewMarkAppointmentPaid(
		repo,
		queries,
		auditDispatcher,
	)

	financialSummaryUC := ucAppointment.NewFinancialSummary(repo)

	// ======================================================
	// 🧠 USE CASES — CLIENTES E PORTAL
	// ======================================================
	deleteClientUC := ucClient.NewDeleteClient(
		repo,
		entities,
		queries,
		auditDispatcher,
	)

	publicBookingUC := ucBooking.NewCreatePublicBooking(
		repo,
		entities,
		queries,
		deps.Checkout,
		auditDispatcher,
		logger,
	)

	availableHoursUC := ucBooking.NewAvailableHours(
		repo,
		queries,
		logger,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, entities, queries)
	meHandler := handlers.NewMeHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		fetchAppointmentsUC,
		createAppointmentUC,
		updateAppointmentUC,
		deleteAppointmentUC,
		cancelAppointmentUC,
		markPaidUC,
		financialSummaryUC,
	)

	clientHandler := handlers.NewClientHandler(db, entities, fetchAppointmentsUC, deleteClientUC)
	modalityHandler := handlers.NewModalityHandler(db, entities, deps.Storage)

	auditLogsHandler := handlers.NewAuditLogsHandler(st)

	publicHandler := handlers.NewPublicHandler(db, publicBookingUC, availableHoursUC)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA (portal)
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug", publicHandler.GetAccount)
			publicAPI.GET("/:slug/modalities", publicHandler.ListModalities)
			publicAPI.GET("/:slug/hours", publicHandler.AvailableHours)
			publicAPI.POST("/:slug/bookings", publicHandler.CreateBooking)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.POST("/auth/logout", authHandler.Logout)

			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)

			// ------------------------------
			// CLIENTES
			// ------------------------------
			secured.GET("/me/clients", clientHandler.List)
			secured.POST("/me/clients", clientHandler.Create)
			secured.PATCH("/me/clients/:id", clientHandler.Update)
			secured.GET("/me/clients/:id/bookings", clientHandler.Bookings)
			secured.DELETE("/me/clients/:id", clientHandler.Delete)

			// ------------------------------
			// MODALIDADES
			// ------------------------------
			secured.GET("/me/modalities", modalityHandler.List)
			secured.POST("/me/modalities", modalityHandler.Create)
			secured.PATCH("/me/modalities/:id", modalityHandler.Update)
			secured.POST("/me/modalities/:id/image", modalityHandler.UploadImage)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/me/appointments", appointmentHandler.List)
			secured.GET("/me/appointments/summary", appointmentHandler.Summary)
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.PATCH("/me/appointments/:id", appointmentHandler.Update)
			secured.DELETE("/me/appointments/:id", appointmentHandler.Delete)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/paid", appointmentHandler.MarkPaid)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
