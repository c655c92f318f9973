package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/Acarreo-api/internal/application/analytics"
	"github.com/jhoicas/Acarreo-api/internal/application/auth"
	"github.com/jhoicas/Acarreo-api/internal/application/delivery"
	"github.com/jhoicas/Acarreo-api/internal/application/notification"
	"github.com/jhoicas/Acarreo-api/internal/application/receivables"
	"github.com/jhoicas/Acarreo-api/internal/application/report"
	"github.com/jhoicas/Acarreo-api/internal/application/routing"
	"github.com/jhoicas/Acarreo-api/internal/application/usecase"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CompanyUC     *usecase.CompanyUseCase
	ClientUC      *usecase.ClientUseCase
	VehicleUC     *usecase.VehicleUseCase
	RouteUC       *routing.RouteUseCase
	ServiceUC     *delivery.ServiceUseCase
	ReceivablesUC *receivables.UseCase
	ReportUC      *report.UseCase
	DashboardUC   *analytics.DashboardUseCase
	Push          *notification.Service
	Events        notification.Dispatcher
	JWTSecret     string
}

// NewApp crea la app Fiber con los middlewares comunes (recover, request id, CORS) y /health.
func NewApp(name, corsOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ErrorHandler: ErrorHandler,
		BodyLimit:    1 << 20,
		// los params y el cuerpo se guardan en los repos: no deben apuntar al buffer de fasthttp
		Immutable: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	})
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	managers := RequireRole(entity.RoleAdmin, entity.RoleGerente)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token). El tenant sale siempre del token.
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))

	protected.Post("/auth/register", managers, authHandler.Register)
	protected.Get("/users", authHandler.Users)

	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Get("/companies/me", companyHandler.Me)

	// Catálogos
	catalog := NewCatalogHandler(deps.ClientUC, deps.VehicleUC)
	clients := protected.Group("/clients")
	clients.Get("/", catalog.ListClients)
	clients.Post("/", managers, catalog.CreateClient)
	clients.Get("/:id", catalog.GetClient)
	clients.Put("/:id", managers, catalog.UpdateClient)

	vehicles := protected.Group("/vehicles")
	vehicles.Get("/", catalog.ListVehicles)
	vehicles.Post("/", managers, catalog.CreateVehicle)
	vehicles.Put("/:id", managers, catalog.UpdateVehicle)

	// Rutas, caja y cierre
	routeHandler := NewRouteHandler(deps.RouteUC, deps.ServiceUC, deps.ReportUC, deps.Events)
	routes := protected.Group("/routes")
	routes.Get("/", routeHandler.List)
	routes.Post("/", managers, routeHandler.Create)
	routes.Get("/:id", routeHandler.Get)
	routes.Put("/:id", managers, routeHandler.Update)
	routes.Delete("/:id", managers, routeHandler.Delete)
	routes.Get("/:id/sheet", routeHandler.Sheet)
	routes.Get("/:id/trail", routeHandler.Trail)
	routes.Post("/:id/movements", routeHandler.AddMovement)
	routes.Post("/:id/close", routeHandler.Close)
	routes.Get("/:id/closing", routeHandler.Summary)
	routes.Get("/:id/closing.csv", routeHandler.ExportCSV)
	routes.Get("/:id/closing.xlsx", routeHandler.ExportXLSX)
	routes.Get("/:id/closing.pdf", routeHandler.ExportPDF)
	routes.Post("/:id/services", routeHandler.CreateService)
	routes.Put("/:id/services/order", routeHandler.ReorderServices)

	// Servicios
	serviceHandler := NewServiceHandler(deps.ServiceUC)
	services := protected.Group("/services")
	services.Get("/mine", serviceHandler.Mine)
	services.Get("/:id", serviceHandler.Detail)
	services.Put("/:id", serviceHandler.Update)
	services.Delete("/:id", managers, serviceHandler.Delete)
	services.Post("/:id/payments", serviceHandler.Payment)
	services.Post("/:id/mark-paid", managers, serviceHandler.MarkPaid)
	services.Post("/:id/pickup", serviceHandler.Pickup)
	services.Post("/:id/delivery", serviceHandler.Delivery)
	services.Get("/:id/comments", serviceHandler.ListComments)
	services.Post("/:id/comments", serviceHandler.AddComment)

	// Cartera
	receivablesHandler := NewReceivablesHandler(deps.ReceivablesUC)
	rec := protected.Group("/receivables", managers)
	rec.Get("/", receivablesHandler.Summary)
	rec.Get("/clients/:id", receivablesHandler.ClientDetail)

	// Tablero de gerencia
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", managers, dashboardHandler.GetSummary)

	// Notificaciones push
	pushHandler := NewPushHandler(deps.Push)
	push := protected.Group("/push")
	push.Post("/subscribe", pushHandler.Subscribe)
	push.Delete("/subscriptions", pushHandler.Unsubscribe)
	push.Get("/status", pushHandler.Status)
	push.Post("/test", pushHandler.Test)
}
