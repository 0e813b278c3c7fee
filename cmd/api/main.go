package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/costeopro/costeo-api/docs"
	"github.com/costeopro/costeo-api/internal/application/auth"
	"github.com/costeopro/costeo-api/internal/application/item"
	"github.com/costeopro/costeo-api/internal/application/purchasing"
	"github.com/costeopro/costeo-api/internal/application/report"
	"github.com/costeopro/costeo-api/internal/application/usecase"
	"github.com/costeopro/costeo-api/internal/domain/costing"
	infrapdf "github.com/costeopro/costeo-api/internal/infrastructure/pdf"
	"github.com/costeopro/costeo-api/internal/infrastructure/postgres"
	"github.com/costeopro/costeo-api/internal/infrastructure/xmlexport"
	httpRouter "github.com/costeopro/costeo-api/internal/interfaces/http"
	"github.com/costeopro/costeo-api/pkg/config"
	"github.com/costeopro/costeo-api/pkg/logger"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	priceRepo := postgres.NewPurchasePriceRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	engine := costing.NewEngine()
	itemUC := item.NewItemUseCase(txRunner, itemRepo, priceRepo, engine, log)

	// Las mutaciones de precios de compra recalculan el costo comercial del
	// ítem dentro de la misma transacción cuando el método vigente lo exige.
	purchasingUC := purchasing.NewPurchasingUseCase(
		txRunner, itemUC, itemRepo, priceRepo, vendorRepo, log,
	)

	// Reportes: hoja de costos PDF y catálogo XML con huella canónica.
	sheetGenerator := infrapdf.NewMarotoSheetGenerator()
	catalogBuilder := xmlexport.NewCatalogBuilderService(cfg.Report.CatalogVersion)
	reportUC := report.NewReportUseCase(
		itemRepo, priceRepo, vendorRepo, companyRepo,
		engine, sheetGenerator, catalogBuilder, cfg.Report.Currency, log,
	)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	moduleSvc := usecase.NewModuleService(companyRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CosteoPro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:     companyUC,
		ItemUC:        itemUC,
		PurchasingUC:  purchasingUC,
		ReportUC:      reportUC,
		AuthUC:        authUC,
		ModuleService: moduleSvc,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
