package http

import (
	"github.com/costeopro/costeo-api/internal/application/auth"
	"github.com/costeopro/costeo-api/internal/application/item"
	"github.com/costeopro/costeo-api/internal/application/purchasing"
	"github.com/costeopro/costeo-api/internal/application/report"
	"github.com/costeopro/costeo-api/internal/application/usecase"
	"github.com/costeopro/costeo-api/internal/domain/entity"
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC     *usecase.CompanyUseCase
	ItemUC        *item.ItemUseCase
	PurchasingUC  *purchasing.PurchasingUseCase
	ReportUC      *report.ReportUseCase
	AuthUC        *auth.AuthUseCase
	ModuleService *usecase.ModuleService
	JWTSecret     string
}

// Router registra las rutas de la API. Cada grupo funcional queda detrás del
// módulo SaaS que lo habilita; las mutaciones de compras, la administración de
// empresas y el alta de usuarios exigen rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público): alta de empresa y login.
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register-company", authHandler.RegisterCompany)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	adminOnly := RequireRole(entity.RoleAdmin)

	// Alta de usuarios dentro de la empresa del token (solo admin).
	protected.Post("/auth/register", adminOnly, authHandler.Register)

	// Companies (protegido)
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", adminOnly, companyHandler.List)
	companies.Post("/", adminOnly, companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Items y costeo (módulo costing).
	costing := RequireModule(entity.ModuleCosting, deps.ModuleService)
	items := protected.Group("/items", costing)
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)

	// Reportes (módulo reports). La ruta de exportación se registra antes que
	// /items/:id para no capturar "export" como id.
	reports := RequireModule(entity.ModuleReports, deps.ModuleService)
	reportHandler := NewReportHandler(deps.ReportUC)
	items.Get("/export/xml", reports, reportHandler.ExportCatalog)

	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Put("/:id/calc-method", itemHandler.ChangeCalcMethod)
	items.Put("/:id/discount", itemHandler.ChangeDiscount)
	items.Put("/:id/unit-price", itemHandler.ChangeUnitPrice)
	items.Put("/:id/unit-cost", itemHandler.ChangeUnitCost)
	items.Put("/:id/last-direct-cost", itemHandler.ChangeLastDirectCost)
	items.Put("/:id/commercial-cost", itemHandler.SetCommercialCost)
	items.Post("/:id/recalculate", itemHandler.Recalculate)
	items.Get("/:id/editability", itemHandler.Editability)
	items.Get("/:id/cost-sheet", reports, reportHandler.DownloadCostSheet)

	// Compras (módulo purchasing): proveedores y precios de compra.
	purchasingMod := RequireModule(entity.ModulePurchasing, deps.ModuleService)
	purchasingHandler := NewPurchasingHandler(deps.PurchasingUC)

	items.Get("/:id/purchase-prices", purchasingMod, purchasingHandler.ListPricesByItem)
	items.Get("/:id/purchase-prices/best", purchasingMod, purchasingHandler.BestPrices)

	vendors := protected.Group("/vendors", purchasingMod)
	vendors.Get("/", purchasingHandler.ListVendors)
	vendors.Get("/:id", purchasingHandler.GetVendor)
	vendors.Post("/", adminOnly, purchasingHandler.CreateVendor)
	vendors.Put("/:id", adminOnly, purchasingHandler.UpdateVendor)
	vendors.Delete("/:id", adminOnly, purchasingHandler.DeleteVendor)

	prices := protected.Group("/purchase-prices", purchasingMod)
	prices.Post("/", adminOnly, purchasingHandler.CreatePrice)
	prices.Put("/:id", adminOnly, purchasingHandler.UpdatePrice)
	prices.Delete("/:id", adminOnly, purchasingHandler.DeletePrice)
}
