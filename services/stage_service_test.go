package services

import (
	"testing"
	"time"

	"licencias_flow_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedWorkflow(db *gorm.DB) (stages map[string]*models.Stage, procedure *models.Procedure) {
	stages = map[string]*models.Stage{
		"ingreso":      createStage(db, "Ingreso", 1),
		"integracion":  createStage(db, "Integración", 2),
		"vistobueno":   createStage(db, "Visto Bueno", 3),
		"resolucion":   createStage(db, "Resolución", 4),
		"notificacion": createStage(db, "Notificación", 5),
		"cierre":       createStage(db, "Cierre", 6),
	}

	procedureType, err := FindOrCreateCatalogByName[models.ProcedureType](db, "Licencia 754")
	if err != nil {
		panic(err)
	}
	subsystem, err := FindOrCreateCatalogByName[models.Subsystem](db, "Federal")
	if err != nil {
		panic(err)
	}

	procedure = &models.Procedure{
		CurrentStageID:  stages["ingreso"].ID,
		ProcedureTypeID: procedureType.ID,
		SubsystemID:     subsystem.ID,
		WorkerName:      "Juan Pérez",
	}
	if err := db.Create(procedure).Error; err != nil {
		panic(err)
	}
	return stages, procedure
}

func TestChangeStageRecordsMovement(t *testing.T) {
	db := setupServicesTestDB()
	stages, procedure := seedWorkflow(db)

	movement, err := ChangeStage(db, procedure.ID, stages["integracion"].ID, nil, "Expediente completo")
	assert.NoError(t, err)
	assert.NotNil(t, movement)
	assert.Equal(t, stages["integracion"].ID, movement.NewStageID)
	assert.NotNil(t, movement.PreviousStageID)
	assert.Equal(t, stages["ingreso"].ID, *movement.PreviousStageID)
	assert.Equal(t, "Expediente completo", movement.Comment)
	assert.WithinDuration(t, time.Now(), movement.OccurredAt, 5*time.Second)

	var stored models.Procedure
	assert.NoError(t, db.First(&stored, "id = ?", procedure.ID).Error)
	assert.Equal(t, stages["integracion"].ID, stored.CurrentStageID)
}

func TestChangeStageSameStageIsNoOp(t *testing.T) {
	db := setupServicesTestDB()
	stages, procedure := seedWorkflow(db)

	movement, err := ChangeStage(db, procedure.ID, stages["ingreso"].ID, nil, "")
	assert.NoError(t, err)
	assert.Nil(t, movement)

	var count int64
	db.Model(&models.Movement{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestChangeStageRejectsInvalidTransition(t *testing.T) {
	db := setupServicesTestDB()
	stages, procedure := seedWorkflow(db)

	_, err := ChangeStage(db, procedure.ID, stages["cierre"].ID, nil, "")
	assert.Error(t, err)
	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	// Rejected moves leave no movement and no stage change behind.
	var count int64
	db.Model(&models.Movement{}).Count(&count)
	assert.Equal(t, int64(0), count)

	var stored models.Procedure
	assert.NoError(t, db.First(&stored, "id = ?", procedure.ID).Error)
	assert.Equal(t, stages["ingreso"].ID, stored.CurrentStageID)
}

func TestChangeStageEnforcesStageFields(t *testing.T) {
	db := setupServicesTestDB()
	stages, procedure := seedWorkflow(db)

	_, err := ChangeStage(db, procedure.ID, stages["integracion"].ID, nil, "")
	assert.NoError(t, err)

	// Resolution without letter and result is rejected by the save hook.
	_, err = ChangeStage(db, procedure.ID, stages["resolucion"].ID, nil, "")
	assert.Error(t, err)

	result, err := FindOrCreateCatalogByName[models.Result](db, "Autorizado")
	assert.NoError(t, err)

	var stored models.Procedure
	assert.NoError(t, db.First(&stored, "id = ?", procedure.ID).Error)
	stored.ResolutionLetterAndDate = "OF-2024-77 del 01/08/2024"
	stored.ResultID = &result.ID
	assert.NoError(t, db.Save(&stored).Error)

	movement, err := ChangeStage(db, procedure.ID, stages["resolucion"].ID, nil, "")
	assert.NoError(t, err)
	assert.NotNil(t, movement)
}

func TestChangeStageMissingStage(t *testing.T) {
	db := setupServicesTestDB()
	_, procedure := seedWorkflow(db)

	_, err := ChangeStage(db, procedure.ID, "99999999-9999-9999-9999-999999999999", nil, "")
	assert.Error(t, err)
	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestRecordControlStatusChangeSuppressesNoOp(t *testing.T) {
	db := setupServicesTestDB()

	worksite := &models.Worksite{Code: "31DPR0009Z", Name: "Primaria Nueve"}
	assert.NoError(t, db.Create(worksite).Error)

	control := &models.InternalControl{
		Memorandum:     "MEMO-1",
		InternalNumber: "CI-1",
		Subject:        "Consulta",
		WorksiteCode:   worksite.Code,
		Year:           2024,
		Status:         models.DefaultControlStatus,
	}
	assert.NoError(t, db.Create(control).Error)

	assert.NoError(t, RecordControlStatusChange(db, control, nil, "NO ATENDIDO", " NO ATENDIDO "))

	var count int64
	db.Model(&models.InternalControlStatusHistory{}).Count(&count)
	assert.Equal(t, int64(0), count)

	assert.NoError(t, RecordControlStatusChange(db, control, nil, "NO ATENDIDO", "ATENDIDO"))
	db.Model(&models.InternalControlStatusHistory{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var history models.InternalControlStatusHistory
	assert.NoError(t, db.First(&history).Error)
	assert.Equal(t, "NO ATENDIDO", history.PreviousStatus)
	assert.Equal(t, "ATENDIDO", history.NewStatus)
}

func TestChangeCaseStatus(t *testing.T) {
	db := setupServicesTestDB()

	worksite := &models.Worksite{Code: "31DES0010A", Name: "Secundaria Diez"}
	assert.NoError(t, db.Create(worksite).Error)

	open, err := FindOrCreateCatalogByName[models.CaseStatus](db, "Abierto")
	assert.NoError(t, err)
	closed, err := FindOrCreateCatalogByName[models.CaseStatus](db, "Cerrado")
	assert.NoError(t, err)
	initialType, err := FindOrCreateCatalogByName[models.ProcedureType](db, "Otro")
	assert.NoError(t, err)

	internalCase := &models.InternalCase{
		WorksiteCode:  worksite.Code,
		OpenedAt:      time.Now(),
		StatusID:      open.ID,
		InitialTypeID: initialType.ID,
	}
	assert.NoError(t, db.Create(internalCase).Error)

	// Same status writes nothing.
	assert.NoError(t, ChangeCaseStatus(db, internalCase.ID, open.ID, nil, ""))
	var count int64
	db.Model(&models.CaseStatusHistory{}).Count(&count)
	assert.Equal(t, int64(0), count)

	assert.NoError(t, ChangeCaseStatus(db, internalCase.ID, closed.ID, nil, "Caso resuelto"))
	db.Model(&models.CaseStatusHistory{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var history models.CaseStatusHistory
	assert.NoError(t, db.First(&history).Error)
	assert.Equal(t, closed.ID, history.NewStatusID)
	assert.Equal(t, "Caso resuelto", history.Comment)

	var stored models.InternalCase
	assert.NoError(t, db.First(&stored, "id = ?", internalCase.ID).Error)
	assert.Equal(t, closed.ID, stored.StatusID)
}
