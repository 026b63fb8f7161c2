package routes

import (
	"smart-delivery/config"
	"smart-delivery/constants"
	assignmentController "smart-delivery/controllers/assignment"
	authController "smart-delivery/controllers/auth"
	customerController "smart-delivery/controllers/customer"
	"smart-delivery/controllers/dashboard"
	deliveryController "smart-delivery/controllers/delivery"
	driverController "smart-delivery/controllers/driver"
	"smart-delivery/controllers/server"
	"smart-delivery/logger"
	"smart-delivery/middleware"
	"smart-delivery/services/assignment"
	"smart-delivery/services/auth"
	"smart-delivery/services/customer"
	"smart-delivery/services/delivery"
	"smart-delivery/services/driver"
	"smart-delivery/services/ledger"
	"smart-delivery/services/subscription"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Services groups the domain services behind the HTTP layer.
type Services struct {
	Ledger        *ledger.Engine
	Auth          *auth.Service
	Customers     *customer.Service
	Drivers       *driver.Service
	Assignments   *assignment.Service
	Deliveries    *delivery.Service
	Subscriptions *subscription.Service
}

// NewServices wires every service against db.
func NewServices(db *gorm.DB, cfg *config.Config) (*Services, error) {
	strategy, err := ledger.ParseStrategy(cfg.Ledger.CarryForwardStrategy)
	if err != nil {
		return nil, err
	}
	engine := ledger.NewEngine(db, strategy)

	return &Services{
		Ledger:        engine,
		Auth:          auth.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Customers:     customer.NewCustomerService(db, engine),
		Drivers:       driver.NewDriverService(db, cfg.Auth.DriverDefaultPassword),
		Assignments:   assignment.NewAssignmentService(db),
		Deliveries:    delivery.NewDeliveryService(db, engine),
		Subscriptions: subscription.NewSubscriptionService(db, engine),
	}, nil
}

func SetupRoutes(app *fiber.App, db *gorm.DB, svc *Services, asyncLogger *logger.AsyncLogger) {
	authCtrl := authController.NewAuthController(svc.Auth)
	customerCtrl := customerController.NewCustomerController(svc.Customers, svc.Subscriptions, svc.Deliveries)
	driverCtrl := driverController.NewDriverController(svc.Drivers, svc.Assignments)
	assignmentCtrl := assignmentController.NewAssignmentController(svc.Assignments)
	deliveryCtrl := deliveryController.NewDeliveryController(svc.Deliveries, svc.Assignments)
	dashboardCtrl := dashboard.NewDashboardController(svc.Deliveries)
	serverCtrl := server.NewServerController(db)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api", middleware.RequestLogger(asyncLogger))
	api.Get("/health", serverCtrl.Health)

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api.Post("/login", authCtrl.Login)

	/*=============================================================================
	| Account Routes
	===============================================================================*/
	account := api.Group("/auth", middleware.RequireAuthentication(svc.Auth))
	account.Post("/change-password", authCtrl.ChangePassword)
	account.Get("/profile", authCtrl.Profile)

	admin := middleware.RequireRoles(svc.Auth, constants.AdminOnly...)
	anyRole := middleware.RequireRoles(svc.Auth, constants.AnyRole...)
	driverOnly := middleware.RequireRoles(svc.Auth, constants.DriverOnly...)

	/*=============================================================================
	| Customer Routes
	===============================================================================*/
	customers := api.Group("/customers", admin)
	customers.Get("/", customerCtrl.Index)
	customers.Post("/", customerCtrl.Store)
	customers.Get("/overview", customerCtrl.Overview)
	customers.Get("/carry-forward", customerCtrl.CarryForward)
	customers.Get("/expired", customerCtrl.Expired)
	customers.Post("/renew", customerCtrl.BulkRenew)
	customers.Put("/:id", customerCtrl.Update)
	customers.Delete("/:id", customerCtrl.Destroy)
	customers.Post("/:id/renew", customerCtrl.Renew)
	customers.Post("/:id/pause", customerCtrl.Pause)

	/*=============================================================================
	| Driver Routes
	===============================================================================*/
	drivers := api.Group("/drivers", admin)
	drivers.Get("/", driverCtrl.Index)
	drivers.Post("/", driverCtrl.Store)
	drivers.Delete("/:id", driverCtrl.Destroy)
	drivers.Get("/:id/assignments", driverCtrl.Assignments)

	/*=============================================================================
	| Assignment Routes
	===============================================================================*/
	assignments := api.Group("/assignments", admin)
	assignments.Get("/", assignmentCtrl.Index)
	assignments.Post("/", assignmentCtrl.Store)
	assignments.Post("/bulk", assignmentCtrl.BulkStore)
	assignments.Delete("/:id", assignmentCtrl.Destroy)

	api.Get("/my/assignments", driverOnly, assignmentCtrl.Mine)

	/*=============================================================================
	| Delivery Routes
	===============================================================================*/
	api.Post("/deliveries/mark", anyRole, deliveryCtrl.Mark)
	api.Post("/deliveries/copy-missed", admin, deliveryCtrl.CopyMissed)

	/*=============================================================================
	| Dashboard Routes
	===============================================================================*/
	dashboardGroup := api.Group("/dashboard", admin)
	dashboardGroup.Get("/kpis", dashboardCtrl.KPIs)
	dashboardGroup.Get("/driver-missed", dashboardCtrl.DriverMissed)
}
