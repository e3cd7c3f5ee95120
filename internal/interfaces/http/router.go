package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/Inventario-hotel/internal/application/analytics"
	"github.com/jhoicas/Inventario-hotel/internal/application/auth"
	"github.com/jhoicas/Inventario-hotel/internal/application/entry"
	"github.com/jhoicas/Inventario-hotel/internal/application/inventory"
	"github.com/jhoicas/Inventario-hotel/internal/application/report"
	"github.com/jhoicas/Inventario-hotel/internal/application/usecase"
)

// RouterDeps dependencias para el router. Los campos opcionales (IA, informes,
// métricas) sin valor dejan sus rutas sin registrar.
type RouterDeps struct {
	Inventory   *inventory.Service
	Entries     *entry.Service
	CatalogUC   *usecase.CatalogUseCase
	UserUC      *usecase.UserUseCase
	AuthUC      *auth.AuthUseCase
	DashboardUC *appanalytics.DashboardUseCase
	AIUC        *usecase.AIUseCase
	StockReport *report.StockReportUseCase
	Metrics     http.Handler
	ServiceName string
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	admin := RequireRole("admin")

	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.Inventory)
	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	items.Post("/delete", itemHandler.DeleteMany)
	items.Post("/import", itemHandler.Import)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)

	txs := protected.Group("/transactions")
	txHandler := NewTransactionHandler(deps.Inventory)
	txs.Get("/", txHandler.List)
	txs.Post("/batch", txHandler.Batch)
	txs.Post("/undo", txHandler.UndoMany)
	txs.Post("/:id/undo", txHandler.Undo)

	entries := protected.Group("/entries")
	entryHandler := NewEntryHandler(deps.Entries)
	entries.Post("/", entryHandler.Start)
	entries.Get("/:id", entryHandler.Get)
	entries.Put("/:id/rows", entryHandler.SetRows)
	entries.Post("/:id/rows/:row/search", entryHandler.Search)
	entries.Post("/:id/rows/:row/select", entryHandler.SelectItem)
	entries.Post("/:id/quick-add", entryHandler.ConfirmQuickAdd)
	entries.Delete("/:id/quick-add", entryHandler.CancelQuickAdd)
	entries.Get("/:id/items", entryHandler.Visible)
	entries.Post("/:id/submit", entryHandler.Submit)
	entries.Delete("/:id", entryHandler.Discard)

	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	protected.Get("/categories", catalogHandler.ListCategories)
	protected.Post("/categories", catalogHandler.CreateCategory)
	protected.Delete("/categories/:id", catalogHandler.DeleteCategory)
	protected.Get("/locations", catalogHandler.ListLocations)
	protected.Post("/locations", catalogHandler.CreateLocation)
	protected.Delete("/locations/:id", catalogHandler.DeleteLocation)

	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Put("/:id/password", userHandler.ChangePassword)
	users.Get("/", admin, userHandler.List)
	users.Post("/", admin, userHandler.Create)
	users.Put("/:id/username", admin, userHandler.Rename)
	users.Delete("/:id", admin, userHandler.Delete)

	if deps.DashboardUC != nil {
		protected.Get("/dashboard", NewDashboardHandler(deps.DashboardUC).GetSummary)
	}
	if deps.AIUC != nil {
		protected.Post("/ai/analysis", NewAIHandler(deps.AIUC).Analyze)
	}
	if deps.StockReport != nil {
		protected.Get("/reports/stock.pdf", NewReportHandler(deps.StockReport).StockPDF)
	}

	adminGroup := protected.Group("/admin", admin)
	adminHandler := NewAdminHandler(deps.Inventory)
	adminGroup.Post("/reset-stock", adminHandler.ResetStock)
	adminGroup.Post("/reload", adminHandler.Reload)
}
