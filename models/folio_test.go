package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedProcedureCatalogs(db *gorm.DB) (stage *Stage, procedureType *ProcedureType, subsystem *Subsystem) {
	stage = newStage(db, "Ingreso", 1)

	procedureType = &ProcedureType{}
	procedureType.Name = "Licencia 754"
	if err := db.Create(procedureType).Error; err != nil {
		panic(err)
	}

	subsystem = &Subsystem{}
	subsystem.Name = "Federal"
	if err := db.Create(subsystem).Error; err != nil {
		panic(err)
	}
	return stage, procedureType, subsystem
}

func newProcedure(stage *Stage, procedureType *ProcedureType, subsystem *Subsystem, worker string) *Procedure {
	return &Procedure{
		CurrentStageID:  stage.ID,
		ProcedureTypeID: procedureType.ID,
		SubsystemID:     subsystem.ID,
		WorkerName:      worker,
	}
}

func TestGenerateFolioSequence(t *testing.T) {
	db := setupModelsTestDB()
	stage, procedureType, subsystem := seedProcedureCatalogs(db)

	year := time.Now().Year()
	for i := 1; i <= 3; i++ {
		p := newProcedure(stage, procedureType, subsystem, fmt.Sprintf("Trabajador %d", i))
		assert.NoError(t, db.Create(p).Error)
		assert.Equal(t, fmt.Sprintf("%s-%d-%04d", FolioPrefix, year, i), p.Folio)
	}
}

func TestGenerateFolioYearFromReferenceDate(t *testing.T) {
	db := setupModelsTestDB()
	stage, procedureType, subsystem := seedProcedureCatalogs(db)

	p := newProcedure(stage, procedureType, subsystem, "Trabajador")
	p.ReceivedAtLevel = date(2023, time.May, 10)
	assert.NoError(t, db.Create(p).Error)
	assert.Equal(t, fmt.Sprintf("%s-2023-0001", FolioPrefix), p.Folio)
}

func TestGenerateFolioSeedsFromExistingFolios(t *testing.T) {
	db := setupModelsTestDB()
	stage, procedureType, subsystem := seedProcedureCatalogs(db)

	// A historical import already holds number 41 for this year.
	imported := newProcedure(stage, procedureType, subsystem, "Importado")
	imported.Folio = fmt.Sprintf("%s-%d-0041", FolioPrefix, time.Now().Year())
	assert.NoError(t, db.Create(imported).Error)

	p := newProcedure(stage, procedureType, subsystem, "Nuevo")
	assert.NoError(t, db.Create(p).Error)
	assert.Equal(t, fmt.Sprintf("%s-%d-0042", FolioPrefix, time.Now().Year()), p.Folio)
}

func TestFolioPreservedOnUpdate(t *testing.T) {
	db := setupModelsTestDB()
	stage, procedureType, subsystem := seedProcedureCatalogs(db)

	p := newProcedure(stage, procedureType, subsystem, "Trabajador")
	assert.NoError(t, db.Create(p).Error)
	folio := p.Folio

	p.Observations = "Actualizado"
	assert.NoError(t, db.Save(p).Error)
	assert.Equal(t, folio, p.Folio)

	var count int64
	db.Model(&Procedure{}).Where("folio = ?", folio).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestNextRegistryNumber(t *testing.T) {
	db := setupModelsTestDB()

	next, err := NextRegistryNumber(db)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), next)

	worksite := &Worksite{Code: "31DST0001A", Name: "Secundaria Uno"}
	assert.NoError(t, db.Create(worksite).Error)

	record := &ProtocolRecord{
		RegistryNumber: 7,
		WorksiteCode:   worksite.Code,
		StartDate:      *date(2024, time.April, 2),
		ChildName:      "NNA",
	}
	assert.NoError(t, db.Create(record).Error)

	next, err = NextRegistryNumber(db)
	assert.NoError(t, err)
	assert.Equal(t, uint(8), next)
}
