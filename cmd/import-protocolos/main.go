package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"licencias_flow_go/config"
	"licencias_flow_go/db"
	"licencias_flow_go/models"
	"licencias_flow_go/services"
)

func main() {
	cctPath := flag.String("cct-path", "", "Path to the worksite (CCT) directory CSV")
	protocolsPath := flag.String("protocolos-path", "", "Path to the protocol registry CSV")
	flag.Parse()

	if *cctPath == "" || *protocolsPath == "" {
		log.Fatal("--cct-path and --protocolos-path are required")
	}

	cfg := config.Load()

	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	result, err := services.ReconcileFromCSV(db.DB, *cctPath, *protocolsPath)
	if err != nil {
		log.Fatalf("Reconciliation failed: %v", err)
	}

	fmt.Printf("Centros de trabajo creados: %d\n", result.WorksitesCreated)
	fmt.Printf("Centros de trabajo actualizados: %d\n", result.WorksitesUpdated)
	fmt.Printf("Registros creados: %d\n", result.RecordsCreated)
	fmt.Printf("Registros actualizados: %d\n", result.RecordsUpdated)
	for _, message := range result.Errors {
		fmt.Printf("  %s\n", message)
	}

	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}
