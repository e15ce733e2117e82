package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"licencias_flow_go/config"
	"licencias_flow_go/db"
	"licencias_flow_go/models"
	"licencias_flow_go/services"
)

func main() {
	path := flag.String("path", "", "Path to the CSV export")
	username := flag.String("username", "", "Username assigned as responsible for imported procedures")
	createCatalogs := flag.Bool("create-missing-catalogs", false, "Create catalog entries referenced by the CSV that do not exist yet")
	flag.Parse()

	if *path == "" {
		log.Fatal("--path is required")
	}

	cfg := config.Load()
	models.FolioPrefix = cfg.FolioPrefix

	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var actor *models.User
	if *username != "" {
		var err error
		actor, err = services.FindUserByUsername(db.DB, *username)
		if err != nil {
			log.Fatalf("Failed to resolve user: %v", err)
		}
	}

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *path, err)
	}
	defer file.Close()

	result, err := services.LoadProceduresFromCSV(db.DB, file, *createCatalogs, actor)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("Filas cargadas: %d\n", len(result.Loaded))
	fmt.Printf("Filas con error: %d\n", len(result.Failed))

	for _, outcome := range result.Loaded {
		for _, warning := range outcome.Warnings {
			fmt.Printf("  Fila %d (aviso): %s\n", outcome.Index, warning)
		}
	}
	for _, outcome := range result.Failed {
		fmt.Printf("  Fila %d: %s\n", outcome.Index, strings.Join(outcome.Errors, "; "))
	}

	if len(result.Failed) > 0 {
		os.Exit(1)
	}
}
