package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/store-api/internal/application/inventory"
	"github.com/jhoicas/store-api/internal/application/usecase"
	"github.com/jhoicas/store-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC         *usecase.ItemUseCase
	ReportUC       *usecase.ReportUseCase
	Sell           *inventory.SellUseCase
	JWTSecret      string          // vacío = rutas de escritura sin protección
	MetricsHandler nethttp.Handler // nil = sin /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")

	// Items: lectura pública; escritura admin; venta admin o vendedor
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.Sell)
	items.Get("/", itemHandler.Search)
	items.Get("/:id", itemHandler.GetByID)
	items.Post("/", secured(deps.JWTSecret, itemHandler.Create, jwt.RoleAdmin)...)
	items.Put("/:id", secured(deps.JWTSecret, itemHandler.Update, jwt.RoleAdmin)...)
	items.Delete("/:id", secured(deps.JWTSecret, itemHandler.Delete, jwt.RoleAdmin)...)
	items.Post("/:id/sell", secured(deps.JWTSecret, itemHandler.Sell, jwt.RoleAdmin, jwt.RoleVendedor)...)

	// Reports (lectura)
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/stock", reportHandler.StockLevels)
	reports.Get("/sales/summary", reportHandler.SoldItemsSummary)
}
