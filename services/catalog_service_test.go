package services

import (
	"testing"

	"licencias_flow_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServicesTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(models.All()...)
	return db
}

func createStage(db *gorm.DB, name string, order int) *models.Stage {
	stage := &models.Stage{Order: order}
	stage.Name = name
	if err := db.Create(stage).Error; err != nil {
		panic(err)
	}
	return stage
}

func TestFindOrCreateCatalogByName(t *testing.T) {
	db := setupServicesTestDB()

	first, err := FindOrCreateCatalogByName[models.Union](db, "SYTTE")
	assert.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	// Case and whitespace variants resolve to the same row.
	second, err := FindOrCreateCatalogByName[models.Union](db, "  sytte ")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.Union{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestFindOrCreateCatalogByNameRejectsEmpty(t *testing.T) {
	db := setupServicesTestDB()

	_, err := FindOrCreateCatalogByName[models.Union](db, "   ")
	assert.Error(t, err)
}

func TestFindCatalogByNameMissing(t *testing.T) {
	db := setupServicesTestDB()

	_, err := FindCatalogByName[models.Diagnosis](db, "Inexistente")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestActiveStagesOrdering(t *testing.T) {
	db := setupServicesTestDB()

	createStage(db, "Cierre", 6)
	createStage(db, "Ingreso", 1)
	inactive := createStage(db, "Obsoleta", 2)
	assert.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	stages, err := ActiveStages(db)
	assert.NoError(t, err)
	assert.Len(t, stages, 2)
	assert.Equal(t, "Ingreso", stages[0].Name)
	assert.Equal(t, "Cierre", stages[1].Name)
}

func TestDeactivateCatalog(t *testing.T) {
	db := setupServicesTestDB()

	entry, err := FindOrCreateCatalogByName[models.Diagnosis](db, "Maternidad")
	assert.NoError(t, err)
	assert.True(t, entry.IsActive)

	assert.NoError(t, DeactivateCatalog[models.Diagnosis](db, "Maternidad"))

	var stored models.Diagnosis
	assert.NoError(t, db.First(&stored, "id = ?", entry.ID).Error)
	assert.False(t, stored.IsActive)
}

func TestHasStages(t *testing.T) {
	db := setupServicesTestDB()

	ok, err := HasStages(db)
	assert.NoError(t, err)
	assert.False(t, ok)

	createStage(db, "Ingreso", 1)
	ok, err = HasStages(db)
	assert.NoError(t, err)
	assert.True(t, ok)
}
