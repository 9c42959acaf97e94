package routes

import (
	"time"

	"vpcs-backend/internal/adapters/http/handlers"
	"vpcs-backend/internal/adapters/http/middleware"
	"vpcs-backend/internal/adapters/persistence/repositories"
	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/core/pricing"
	"vpcs-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Deps are the adapters the routes are built on. Store and Identity may be
// nil when the feature is not configured.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Broker   services.Broker
	Locker   services.Locker
	Store    services.ObjectStore
	Identity services.IdentityProvider
	Pricing  *pricing.Calculator
	Access   *domain.AccessTable

	// HealthChecks are reported by /health next to the database
	HealthChecks map[string]func() error
}

// Setup configures all routes for the application and returns the scheduler
// for the caller to start and stop
func Setup(app *fiber.App, deps Deps) *services.CronService {
	h, authService, cronService := newAPIHandlers(deps, gormRepos(deps.DB))

	// Health check & root routes
	app.Get("/", h.health.Root)
	app.Get("/health", h.health.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, h, deps.Access, middleware.AuthMiddleware(deps.Config, authService), deps.Config)

	return cronService
}

// repoSet is the persistence the services are built on
type repoSet struct {
	users         repositories.ApprovedUserRepository
	roleCodes     repositories.RoleCodeRepository
	refreshTokens repositories.RefreshTokenRepository
	parties       repositories.PartyRepository
	materials     repositories.MaterialRepository
	baseCompanies repositories.BaseCompanyRepository
	tankers       repositories.TankerRepository
	cashflow      repositories.CashflowRepository
	transactions  repositories.MaterialTransactionRepository
}

func gormRepos(db *gorm.DB) repoSet {
	return repoSet{
		users:         repositories.NewApprovedUserRepository(db),
		roleCodes:     repositories.NewRoleCodeRepository(db),
		refreshTokens: repositories.NewRefreshTokenRepository(db),
		parties:       repositories.NewPartyRepository(db),
		materials:     repositories.NewMaterialRepository(db),
		baseCompanies: repositories.NewBaseCompanyRepository(db),
		tankers:       repositories.NewTankerRepository(db),
		cashflow:      repositories.NewCashflowRepository(db),
		transactions:  repositories.NewMaterialTransactionRepository(db),
	}
}

// newAPIHandlers builds the services and handlers on top of repos
func newAPIHandlers(deps Deps, repos repoSet) (*apiHandlers, *services.AuthService, *services.CronService) {
	cfg, access := deps.Config, deps.Access

	// Initialize services
	authService := services.NewAuthService(repos.users, repos.roleCodes, repos.refreshTokens, deps.Identity, access, deps.Broker, cfg)
	userService := services.NewUserService(repos.users, repos.refreshTokens, deps.Broker)
	partyService := services.NewPartyService(repos.parties, deps.Broker)
	materialService := services.NewMaterialService(repos.materials, deps.Broker)
	baseCompanyService := services.NewBaseCompanyService(repos.baseCompanies, deps.Locker, deps.Broker)
	tankerService := services.NewTankerService(repos.tankers, deps.Locker, deps.Broker)
	cashflowService := services.NewCashflowService(repos.cashflow, deps.Store, deps.Broker)
	calculatorService := services.NewCalculatorService(deps.Pricing)
	transactionService := services.NewTransactionService(repos.transactions, deps.Pricing, deps.Broker)
	dashboardService := services.NewDashboardService(cashflowService, transactionService, repos.users, access)
	changeFeedService := services.NewChangeFeedService(deps.Broker, access)
	cronService := services.NewCronService(repos.refreshTokens, cashflowService, cfg.Cron)

	// Initialize handlers
	h := &apiHandlers{
		health:      handlers.NewHealthHandler(deps.HealthChecks),
		auth:        handlers.NewAuthHandler(authService, cfg),
		access:      handlers.NewAccessHandler(access),
		calculator:  handlers.NewCalculatorHandler(calculatorService),
		cashflow:    handlers.NewCashflowHandler(cashflowService, changeFeedService),
		changes:     handlers.NewChangeFeedHandler(changeFeedService),
		master:      handlers.NewMasterHandler(partyService, materialService),
		baseCompany: handlers.NewBaseCompanyHandler(baseCompanyService),
		tanker:      handlers.NewTankerHandler(tankerService),
		user:        handlers.NewUserHandler(userService),
		transaction: handlers.NewTransactionHandler(transactionService),
		dashboard:   handlers.NewDashboardHandler(dashboardService),
	}
	return h, authService, cronService
}

type apiHandlers struct {
	health      *handlers.HealthHandler
	auth        *handlers.AuthHandler
	access      *handlers.AccessHandler
	calculator  *handlers.CalculatorHandler
	cashflow    *handlers.CashflowHandler
	changes     *handlers.ChangeFeedHandler
	master      *handlers.MasterHandler
	baseCompany *handlers.BaseCompanyHandler
	tanker      *handlers.TankerHandler
	user        *handlers.UserHandler
	transaction *handlers.TransactionHandler
	dashboard   *handlers.DashboardHandler
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(router fiber.Router, h *apiHandlers, access *domain.AccessTable, authed fiber.Handler, cfg *config.Config) {
	// API Info
	router.Get("/", h.health.APIInfo)

	// Auth routes
	setupAuthRoutes(router.Group("/auth", middleware.NoCacheHeaders()), h.auth, authed, cfg)

	// Everything below requires a session

	router.Get("/access", authed, h.access.Current)
	router.Get("/access/roles", authed, middleware.PrivateCacheHeaders(5*time.Minute), h.access.Roles)
	router.Get("/dashboard", authed, h.dashboard.GetMyDashboard)
	router.Get("/changes/stream", authed, h.changes.Stream)

	setupCalculatorRoutes(router.Group("/calculator", authed), h.calculator, access)
	setupCashflowRoutes(router.Group("/cashflow", authed), h.cashflow, access, cfg.RateLimit)
	setupTransactionRoutes(router.Group("/transactions", authed, middleware.RequireModule(access, domain.ModuleTransactions)), h.transaction)
	setupMasterRoutes(router, authed, h, access)
	setupUserRoutes(router.Group("/users", authed, middleware.RequireModule(access, domain.ModuleUserManagement)), h.user)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, h *handlers.AuthHandler, authed fiber.Handler, cfg *config.Config) {
	// Public routes (with stricter rate limiting)
	router.Get("/google/url", middleware.AuthRateLimiter(cfg.RateLimit), h.GoogleURL)
	router.Get("/google/callback", middleware.AuthRateLimiter(cfg.RateLimit), h.GoogleCallback)
	router.Post("/login/code", middleware.AuthRateLimiter(cfg.RateLimit), h.LoginWithCode)
	router.Post("/refresh", middleware.AuthRateLimiter(cfg.RateLimit), h.RefreshToken)
	router.Post("/logout", h.Logout)
	router.Get("/session", middleware.OptionalAuth(cfg), h.Session)

	// Protected routes
	router.Post("/logout-all", authed, middleware.UserSessionOnly(), middleware.StrictRateLimiter(cfg.RateLimit), h.LogoutAll)
	router.Get("/me", authed, h.Me)
}

// setupCalculatorRoutes configures the material price calculator
func setupCalculatorRoutes(router fiber.Router, h *handlers.CalculatorHandler, access *domain.AccessTable) {
	router.Use(middleware.RequireModule(access, domain.ModuleCalculator))

	router.Get("/rates", middleware.PrivateCacheHeaders(5*time.Minute), h.Rates)
	router.Post("/calculate", h.Calculate)
}

// setupCashflowRoutes configures the ledger. Reading and entering are separate modules.
func setupCashflowRoutes(router fiber.Router, h *handlers.CashflowHandler, access *domain.AccessTable, limits config.RateLimitConfig) {
	view := middleware.RequireModule(access, domain.ModuleCashflow)
	enter := middleware.RequireModule(access, domain.ModuleCashflowEntry)

	router.Get("/", view, h.List)
	router.Post("/", enter, h.Create)
	router.Get("/export", view, h.Export)
	router.Post("/export/archive", view, middleware.StrictRateLimiter(limits), h.Archive)
	router.Get("/stream", view, h.Stream)
}

// setupTransactionRoutes configures the transactions dashboard
func setupTransactionRoutes(router fiber.Router, h *handlers.TransactionHandler) {
	router.Get("/", h.List)
	router.Get("/summary", h.Summary)
	router.Post("/", h.Create)
	router.Get("/:id", h.Get)
	router.Patch("/:id/status", h.UpdateStatus)
}

// setupMasterRoutes configures parties, materials, base companies and tankers
func setupMasterRoutes(router fiber.Router, authed fiber.Handler, h *apiHandlers, access *domain.AccessTable) {
	parties := router.Group("/parties", authed, middleware.RequireModule(access, domain.ModuleParties))
	parties.Get("/", h.master.ListParties)
	parties.Post("/", h.master.CreateParty)
	parties.Get("/:id", h.master.GetParty)
	parties.Put("/:id", h.master.UpdateParty)
	parties.Patch("/:id/toggle-status", h.master.ToggleParty)

	materials := router.Group("/materials", authed, middleware.RequireModule(access, domain.ModuleMaterials))
	materials.Get("/", h.master.ListMaterials)
	materials.Post("/", h.master.CreateMaterial)
	materials.Get("/:id", h.master.GetMaterial)
	materials.Put("/:id", h.master.UpdateMaterial)
	materials.Patch("/:id/toggle-status", h.master.ToggleMaterial)

	companies := router.Group("/base-companies", authed, middleware.RequireModule(access, domain.ModuleBaseCompanyManagement))
	companies.Get("/", h.baseCompany.List)
	companies.Get("/nickname-availability", h.baseCompany.NicknameAvailability)
	companies.Post("/", h.baseCompany.Create)
	companies.Get("/:id", h.baseCompany.Get)
	companies.Put("/:id", h.baseCompany.Update)
	companies.Patch("/:id/toggle-status", h.baseCompany.ToggleStatus)

	tankers := router.Group("/tankers", authed, middleware.RequireModule(access, domain.ModuleTankerManagement))
	tankers.Get("/", h.tanker.List)
	tankers.Get("/transporters", h.tanker.Transporters)
	tankers.Post("/", h.tanker.Create)
	tankers.Get("/:id", h.tanker.Get)
	tankers.Put("/:id", h.tanker.Update)
	tankers.Patch("/:id/toggle-status", h.tanker.ToggleStatus)
}

// setupUserRoutes configures approved-user management
func setupUserRoutes(router fiber.Router, h *handlers.UserHandler) {
	router.Get("/", h.ListUsers)
	router.Get("/stats", h.UserStats)
	router.Post("/", h.CreateUser)
	router.Get("/:id", h.GetUser)
	router.Patch("/:id/status", h.UpdateUserStatus)
}
