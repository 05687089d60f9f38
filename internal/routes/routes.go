package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/clinicdesk/clinic-scheduler/internal/audit"
	"github.com/clinicdesk/clinic-scheduler/internal/cache"
	"github.com/clinicdesk/clinic-scheduler/internal/config"
	"github.com/clinicdesk/clinic-scheduler/internal/credential"
	bookdomain "github.com/clinicdesk/clinic-scheduler/internal/domain/booking"
	identdomain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/handlers"
	infraRepo "github.com/clinicdesk/clinic-scheduler/internal/infra/repository"
	"github.com/clinicdesk/clinic-scheduler/internal/mailer"
	"github.com/clinicdesk/clinic-scheduler/internal/middleware"
	ucBooking "github.com/clinicdesk/clinic-scheduler/internal/usecase/booking"
	ucIdentity "github.com/clinicdesk/clinic-scheduler/internal/usecase/identity"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TenantDomain())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	userRepo := infraRepo.NewUserGormRepository(db)
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	creds := credential.NewStore(cfg.PasswordPepper, cfg.BcryptCost)

	var tenantCache cache.Cache
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, tenant lookups will not be cached")
		} else {
			tenantCache = redisCache
		}
	}

	var mail mailer.Mailer = mailer.NoopMailer{}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	}

	// ======================================================
	// 🧠 USE CASES — IDENTITY
	// ======================================================
	tenantResolver := ucIdentity.NewTenantResolver(userRepo, tenantCache)

	registerUC := ucIdentity.NewRegisterUser(
		userRepo,
		creds,
		tenantResolver,
		mail,
		auditDispatcher,
	)

	loginUC := ucIdentity.NewAuthenticate(
		userRepo,
		creds,
		tenantResolver,
	)

	externalUC := ucIdentity.NewResolveExternalIdentity(
		userRepo,
		tenantResolver,
		auditDispatcher,
	)

	forgotUC := ucIdentity.NewRequestPasswordReset(
		userRepo,
		creds,
		tenantResolver,
		mail,
		auditDispatcher,
	)

	resetUC := ucIdentity.NewResetPassword(
		userRepo,
		creds,
		auditDispatcher,
	)

	updateProfileUC := ucIdentity.NewUpdateProfile(userRepo)
	deleteAccountUC := ucIdentity.NewDeleteAccount(userRepo, tenantResolver, auditDispatcher)
	listClientsUC := ucIdentity.NewListClients(userRepo)

	// ======================================================
	// 🧠 USE CASES — BOOKINGS
	// ======================================================
	slotEngine := bookdomain.NewSlotEngine(bookingRepo)

	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		userRepo,
		slotEngine,
		auditDispatcher,
		cfg.Timezone,
	)

	getBookingUC := ucBooking.NewGetBooking(bookingRepo, userRepo)

	updateBookingUC := ucBooking.NewUpdateBooking(
		bookingRepo,
		userRepo,
		slotEngine,
		auditDispatcher,
		cfg.Timezone,
	)

	transitionUC := ucBooking.NewTransitionBookingStatus(
		bookingRepo,
		userRepo,
		auditDispatcher,
		cfg.Timezone,
	)

	deleteBookingUC := ucBooking.NewDeleteBooking(
		bookingRepo,
		userRepo,
		auditDispatcher,
	)

	availabilityUC := ucBooking.NewGetAvailability(
		slotEngine,
		cfg.Timezone,
		cfg.WorkdayStart,
		cfg.WorkdayEnd,
	)

	listMineUC := ucBooking.NewListCustomerBookings(bookingRepo)
	listDayUC := ucBooking.NewListTenantDayBookings(bookingRepo, cfg.Timezone)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(
		registerUC,
		loginUC,
		externalUC,
		forgotUC,
		resetUC,
		cfg,
	)

	meHandler := handlers.NewMeHandler(userRepo, updateProfileUC, deleteAccountUC)
	clientHandler := handlers.NewClientHandler(listClientsUC)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		getBookingUC,
		updateBookingUC,
		transitionUC,
		deleteBookingUC,
		availabilityUC,
		listMineUC,
		listDayUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	publicHandler := handlers.NewPublicHandler(tenantResolver, availabilityUC)

	tenantOnly := middleware.RequireRoles(string(identdomain.RoleCustomerAdmin))
	staffOnly := middleware.RequireRoles(
		string(identdomain.RoleCustomerAdmin),
		string(identdomain.RoleAdministrator),
	)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/tenant", publicHandler.GetTenant)
			publicAPI.GET("/availability", publicHandler.Availability)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/external", authHandler.ExternalLogin)
		api.POST("/auth/forgot-password", authHandler.ForgotPassword)
		api.POST("/auth/reset-password", authHandler.ResetPassword)

		// ------------------------------
		// 🔐 PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)
			secured.DELETE("/me", meHandler.DeleteMe)

			secured.GET("/me/clients", tenantOnly, clientHandler.List)
			secured.GET("/me/schedule", tenantOnly, bookingHandler.DaySchedule)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/me/bookings", bookingHandler.Create)
			secured.GET("/me/bookings", bookingHandler.ListMine)
			secured.GET("/me/bookings/:id", bookingHandler.Get)
			secured.PATCH("/me/bookings/:id", bookingHandler.Update)
			secured.PATCH("/me/bookings/:id/confirm", bookingHandler.Confirm)
			secured.PATCH("/me/bookings/:id/complete", bookingHandler.Complete)
			secured.PATCH("/me/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/me/bookings/:id/no-show", bookingHandler.NoShow)
			secured.DELETE("/me/bookings/:id", bookingHandler.Delete)

			secured.GET("/me/availability", bookingHandler.Availability)

			secured.GET("/me/audit-logs", staffOnly, auditLogsHandler.List)
		}
	}

	// ======================================================
	// 📈 METRICS
	// ======================================================
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}
