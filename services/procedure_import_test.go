package services

import (
	"strings"
	"testing"
	"time"

	"licencias_flow_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func importHeaders() []string {
	return []string{
		"Nombre del trabajador",
		"Licencia o trámite",
		"Federal/ Estatal",
		"Trámite Inicial o prórroga",
		"Nombre del sindicato",
		"Fecha de recepción del oficio del sindicato o escrito del trabajador en el nivel educativo",
		"Número de oficio y fecha de notificacíon al sindicato sobre la resolución.",
		"Fecha en la se realizó la notificacion al sindicato",
	}
}

func seedImportCatalogs(db *gorm.DB) {
	createStage(db, "Ingreso", 1)
	if _, err := FindOrCreateCatalogByName[models.ProcedureType](db, "Licencia 754"); err != nil {
		panic(err)
	}
	if _, err := FindOrCreateCatalogByName[models.Subsystem](db, "Federal"); err != nil {
		panic(err)
	}
}

func TestLoadProceduresFromRows(t *testing.T) {
	db := setupServicesTestDB()
	seedImportCatalogs(db)

	rows := [][]string{
		{"Juan Pérez", "Licencia 754", "Federal", "Trámite inicial", "SYTTE", "15/03/2024", "", ""},
	}

	result, err := LoadProceduresFromRows(db, importHeaders(), rows, true, nil)
	assert.NoError(t, err)
	assert.Len(t, result.Loaded, 1)
	assert.Empty(t, result.Failed)

	procedure := result.Loaded[0].Procedure
	assert.NotEmpty(t, procedure.Folio)
	assert.Equal(t, "Juan Pérez", procedure.WorkerName)
	assert.Equal(t, models.RequestKindInitial, procedure.RequestKind)
	assert.NotNil(t, procedure.ReceivedAtLevel)
	assert.Equal(t, 2024, procedure.ReceivedAtLevel.Year())
	assert.NotNil(t, procedure.UnionID)
}

func TestLoadProceduresRowIsolation(t *testing.T) {
	db := setupServicesTestDB()
	seedImportCatalogs(db)

	rows := [][]string{
		{"Trabajador Uno", "Licencia 754", "Federal", "inicial", "", "", "", ""},
		{"Trabajador Dos", "Tipo Desconocido", "Federal", "inicial", "", "", "", ""},
		{"Trabajador Tres", "Licencia 754", "Federal", "prórroga", "", "", "", ""},
	}

	result, err := LoadProceduresFromRows(db, importHeaders(), rows, false, nil)
	assert.NoError(t, err)
	assert.Len(t, result.Loaded, 2)
	assert.Len(t, result.Failed, 1)

	// Failed rows report their spreadsheet position and leave nothing behind.
	failed := result.Failed[0]
	assert.Equal(t, 3, failed.Index)
	assert.NotEmpty(t, failed.Errors)

	var count int64
	db.Model(&models.Procedure{}).Count(&count)
	assert.Equal(t, int64(2), count)

	var workers []string
	db.Model(&models.Procedure{}).Order("worker_name").Pluck("worker_name", &workers)
	assert.Equal(t, []string{"Trabajador Tres", "Trabajador Uno"}, workers)
}

func TestLoadProceduresRequiredFields(t *testing.T) {
	db := setupServicesTestDB()
	seedImportCatalogs(db)

	rows := [][]string{
		{"", "", "", "", "", "", "", ""},
	}

	result, err := LoadProceduresFromRows(db, importHeaders(), rows, true, nil)
	assert.NoError(t, err)
	assert.Empty(t, result.Loaded)
	assert.Len(t, result.Failed, 1)

	joined := strings.Join(result.Failed[0].Errors, " | ")
	assert.Contains(t, joined, "Nombre del trabajador")
	assert.Contains(t, joined, "Tipo de trámite")
	assert.Contains(t, joined, "Subsistema")
}

func TestLoadProceduresCreatesCatalogsWhenAllowed(t *testing.T) {
	db := setupServicesTestDB()
	seedImportCatalogs(db)

	rows := [][]string{
		{"Trabajadora", "Cambio de Función", "Estatal", "inicial", "SNTE sección 33", "", "", ""},
	}

	result, err := LoadProceduresFromRows(db, importHeaders(), rows, true, nil)
	assert.NoError(t, err)
	assert.Len(t, result.Loaded, 1)

	_, err = FindCatalogByName[models.ProcedureType](db, "Cambio de Función")
	assert.NoError(t, err)
	_, err = FindCatalogByName[models.Subsystem](db, "Estatal")
	assert.NoError(t, err)
	_, err = FindCatalogByName[models.Union](db, "SNTE sección 33")
	assert.NoError(t, err)
}

func TestLoadProceduresDerivesNotifications(t *testing.T) {
	db := setupServicesTestDB()
	seedImportCatalogs(db)

	rows := [][]string{
		{"Juan Pérez", "Licencia 754", "Federal", "inicial", "", "", "OF-555", "10/04/2024"},
	}

	result, err := LoadProceduresFromRows(db, importHeaders(), rows, true, nil)
	assert.NoError(t, err)
	assert.Len(t, result.Loaded, 1)

	var notifications []models.Notification
	assert.NoError(t, db.Where("procedure_id = ?", result.Loaded[0].Procedure.ID).Find(&notifications).Error)
	assert.Len(t, notifications, 1)
	assert.Equal(t, models.RecipientUnion, notifications[0].Recipient)
	assert.Equal(t, "OF-555", notifications[0].LetterNumber)
	assert.NotNil(t, notifications[0].Date)
	assert.Equal(t, time.April, notifications[0].Date.Month())
}

func TestLoadProceduresWarnsOnBadDates(t *testing.T) {
	db := setupServicesTestDB()
	seedImportCatalogs(db)

	rows := [][]string{
		{"Juan Pérez", "Licencia 754", "Federal", "inicial", "", "sin fecha", "", ""},
	}

	result, err := LoadProceduresFromRows(db, importHeaders(), rows, true, nil)
	assert.NoError(t, err)
	assert.Len(t, result.Loaded, 1)

	outcome := result.Loaded[0]
	assert.Nil(t, outcome.Procedure.ReceivedAtLevel)
	assert.NotEmpty(t, outcome.Warnings)
	assert.Contains(t, outcome.Warnings[0], "Fecha no reconocida")
}

func TestLoadProceduresFromCSVSkipsBannerRow(t *testing.T) {
	db := setupServicesTestDB()
	seedImportCatalogs(db)

	csv := "Reporte de licencias,,,,,,,\n" +
		strings.Join(importHeaders(), ",") + "\n" +
		"Juan Pérez,Licencia 754,Federal,inicial,,,,\n"

	result, err := LoadProceduresFromCSV(db, strings.NewReader(csv), true, nil)
	assert.NoError(t, err)
	assert.Len(t, result.Loaded, 1)
	assert.Equal(t, 2, result.Loaded[0].Index)
}

func TestLoadProceduresStripsHeaderBOM(t *testing.T) {
	db := setupServicesTestDB()
	seedImportCatalogs(db)

	headers := importHeaders()
	headers[0] = "\uFEFF" + headers[0]
	rows := [][]string{
		{"Ana López", "Licencia 754", "Federal", "inicial", "", "", "", ""},
	}

	result, err := LoadProceduresFromRows(db, headers, rows, true, nil)
	assert.NoError(t, err)
	assert.Len(t, result.Loaded, 1)
	assert.Equal(t, "Ana López", result.Loaded[0].Procedure.WorkerName)
}

func TestNormalizeRequestKind(t *testing.T) {
	assert.Equal(t, models.RequestKindInitial, NormalizeRequestKind("Trámite inicial"))
	assert.Equal(t, models.RequestKindExtension, NormalizeRequestKind("PRÓRROGA"))
	assert.Equal(t, models.RequestKindExtension, NormalizeRequestKind("segunda prorroga"))
	assert.Equal(t, models.RequestKindUnknown, NormalizeRequestKind(""))
	assert.Equal(t, models.RequestKindUnknown, NormalizeRequestKind("algo más"))
}

func TestResolveInitialStage(t *testing.T) {
	db := setupServicesTestDB()

	// No stages at all: one is created.
	stage, err := ResolveInitialStage(db)
	assert.NoError(t, err)
	assert.Equal(t, "Ingreso", stage.Name)

	// A stage whose name contains "ingreso" wins over lower orders.
	db2 := setupServicesTestDB()
	createStage(db2, "Recepción", 1)
	wanted := createStage(db2, "Ingreso de documentos", 4)
	stage, err = ResolveInitialStage(db2)
	assert.NoError(t, err)
	assert.Equal(t, wanted.ID, stage.ID)

	// Otherwise the lowest-ordered stage is used.
	db3 := setupServicesTestDB()
	first := createStage(db3, "Recepción", 1)
	createStage(db3, "Dictamen", 2)
	stage, err = ResolveInitialStage(db3)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, stage.ID)
}
