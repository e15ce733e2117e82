package main

import (
	"fmt"
	"log"
	"sort"

	"licencias_flow_go/config"
	"licencias_flow_go/db"
	"licencias_flow_go/models"
	"licencias_flow_go/services"
)

func main() {
	cfg := config.Load()

	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	summary, err := services.SeedCatalogs(db.DB)
	if err != nil {
		log.Fatalf("Failed to seed catalogs: %v", err)
	}

	labels := make([]string, 0, len(summary.Created))
	for label := range summary.Created {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	fmt.Println("Catálogos poblados:")
	for _, label := range labels {
		fmt.Printf("  %s: %d nuevos\n", label, summary.Created[label])
	}
}
