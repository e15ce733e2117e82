package main

import (
	"log"

	"licencias_flow_go/config"
	"licencias_flow_go/db"
	"licencias_flow_go/handlers"
	"licencias_flow_go/models"
	"licencias_flow_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()
	models.FolioPrefix = cfg.FolioPrefix

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	hasStages, err := services.HasStages(db.DB)
	if err != nil {
		log.Fatalf("Failed to check stage catalog: %v", err)
	}
	if !hasStages {
		log.Printf("No stages configured; run seed-catalogs before creating procedures")
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	// Public routes
	e.POST("/api/login", handlers.LoginHandler)

	api := e.Group("/api")
	{
		api.GET("/kpis", handlers.KPISummaryHandler)
		api.GET("/stages", handlers.ListStagesHandler)
		api.GET("/catalogs/:kind", handlers.ListCatalogHandler)

		api.GET("/procedures", handlers.ListProceduresHandler)
		api.POST("/procedures", handlers.CreateProcedureHandler)
		api.GET("/procedures/export", handlers.ExportProceduresHandler)
		api.GET("/procedures/import-template", handlers.GetImportTemplateHandler)
		api.POST("/procedures/import", handlers.ImportProceduresHandler(cfg))
		api.GET("/procedures/:id", handlers.GetProcedureHandler)
		api.PUT("/procedures/:id", handlers.UpdateProcedureHandler)
		api.POST("/procedures/:id/stage", handlers.ChangeStageHandler)
		api.GET("/procedures/:id/movements", handlers.ListMovementsHandler)

		api.GET("/worksites", handlers.ListWorksitesHandler)
		api.GET("/worksites/:code", handlers.GetWorksiteHandler)
		api.GET("/protocols", handlers.ListProtocolRecordsHandler)
		api.POST("/protocols", handlers.CreateProtocolRecordHandler)
		api.POST("/protocols/reconcile", handlers.ReconcileProtocolsHandler)

		api.GET("/controls", handlers.ListInternalControlsHandler)
		api.POST("/controls", handlers.CreateInternalControlHandler)
		api.PUT("/controls/:id/status", handlers.ChangeControlStatusHandler)

		api.GET("/cases", handlers.ListInternalCasesHandler)
		api.POST("/cases", handlers.CreateInternalCaseHandler)
		api.PUT("/cases/:id/status", handlers.ChangeCaseStatusHandler)
		api.GET("/cases/:id/history", handlers.ListCaseHistoryHandler)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
