package services

import (
	"errors"
	"fmt"
	"strings"

	"licencias_flow_go/models"

	"gorm.io/gorm"
)

// catalogEntry is satisfied by every model embedding models.CatalogBase
type catalogEntry interface {
	GetName() string
	SetName(string)
}

// FindCatalogByName fetches a catalog entry by case-insensitive exact
// name match.
func FindCatalogByName[T any, PT interface {
	*T
	catalogEntry
}](db *gorm.DB, name string) (*T, error) {
	var entry T
	err := db.Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindOrCreateCatalogByName resolves a catalog entry by name, creating
// it when absent. A lost insert race falls back to re-reading, relying
// on the unique index rather than a get-or-create window.
func FindOrCreateCatalogByName[T any, PT interface {
	*T
	catalogEntry
}](db *gorm.DB, name string) (*T, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("catalog name must not be empty")
	}

	entry, err := FindCatalogByName[T, PT](db, name)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var fresh T
	PT(&fresh).SetName(name)
	if createErr := db.Create(&fresh).Error; createErr != nil {
		if existing, findErr := FindCatalogByName[T, PT](db, name); findErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create catalog entry %q: %w", name, createErr)
	}
	return &fresh, nil
}

// ActiveStages returns the active stages in workflow order.
func ActiveStages(db *gorm.DB) ([]models.Stage, error) {
	var stages []models.Stage
	err := db.Where("is_active = ?", true).Order("`order` ASC, name ASC").Find(&stages).Error
	return stages, err
}

// DeactivateCatalog soft-deactivates a catalog entry; rows are never
// hard-deleted because procedures may reference them.
func DeactivateCatalog[T any, PT interface {
	*T
	catalogEntry
}](db *gorm.DB, name string) error {
	entry, err := FindCatalogByName[T, PT](db, name)
	if err != nil {
		return err
	}
	return db.Model(entry).Update("is_active", false).Error
}

// HasStages reports whether any stage exists; callers use it as the
// startup check replacing the old process-wide "catalog loaded" flag.
func HasStages(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&models.Stage{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
