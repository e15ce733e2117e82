package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSustainment(t *testing.T) {
	assert.Equal(t, "FEDERAL", NormalizeSustainment("FEDERAL TRANSFERIDO"))
	assert.Equal(t, "FEDERAL", NormalizeSustainment("  federal transferido  "))
	assert.Equal(t, "ESTATAL", NormalizeSustainment(" ESTATAL "))
	assert.Equal(t, "", NormalizeSustainment(""))

	// Idempotent on already canonical values.
	assert.Equal(t, "FEDERAL", NormalizeSustainment(NormalizeSustainment("FEDERAL TRANSFERIDO")))
}

func TestWorksiteNormalizesSustainmentOnSave(t *testing.T) {
	db := setupModelsTestDB()

	worksite := &Worksite{
		Code:              "31DPR0001K",
		Name:              "Primaria Benito Juárez",
		SustainmentSystem: "FEDERAL TRANSFERIDO",
	}
	assert.NoError(t, db.Create(worksite).Error)

	var stored Worksite
	assert.NoError(t, db.First(&stored, "code = ?", worksite.Code).Error)
	assert.Equal(t, "FEDERAL", stored.SustainmentSystem)
}

func TestProtocolRecordSnapshotsWorksite(t *testing.T) {
	db := setupModelsTestDB()

	worksite := &Worksite{
		Code:    "31DST0002B",
		Name:    "Secundaria Técnica Dos",
		Advisor: "Lic. Medina",
	}
	assert.NoError(t, db.Create(worksite).Error)

	record := &ProtocolRecord{
		WorksiteCode: worksite.Code,
		StartDate:    *date(2024, time.April, 2),
		ChildName:    "NNA",
	}
	assert.NoError(t, db.Create(record).Error)

	assert.Equal(t, "Secundaria Técnica Dos", record.SchoolName)
	assert.Equal(t, "Lic. Medina", record.LegalAdvisor)
	assert.Equal(t, uint(2024), record.Year)
	assert.Equal(t, uint(1), record.RegistryNumber)
	assert.Equal(t, SexUnspecified, record.Sex)
}

func TestProtocolRecordYearBounds(t *testing.T) {
	db := setupModelsTestDB()

	worksite := &Worksite{Code: "31DST0003C", Name: "Secundaria Tres"}
	assert.NoError(t, db.Create(worksite).Error)

	record := &ProtocolRecord{
		WorksiteCode: worksite.Code,
		StartDate:    *date(2024, time.April, 2),
		ChildName:    "NNA",
		Year:         1999,
	}
	err := db.Create(record).Error
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "entre 2000")

	record.ID = ""
	record.Year = uint(time.Now().Year() + 5)
	err = db.Create(record).Error
	assert.Error(t, err)
}

func TestInternalControlSnapshotsAndStatus(t *testing.T) {
	db := setupModelsTestDB()

	worksite := &Worksite{
		Code:              "31DJN0004D",
		Name:              "Jardín de Niños Cuatro",
		Advisor:           "Lic. Solís",
		ServiceModality:   "Preescolar",
		SustainmentSystem: "federal transferido",
	}
	assert.NoError(t, db.Create(worksite).Error)

	memorandumDate := date(2024, time.June, 3)
	control := &InternalControl{
		Memorandum:     "MEMO-2024-015",
		MemorandumDate: memorandumDate,
		InternalNumber: "CI-15",
		Subject:        "Solicitud de opinión jurídica",
		WorksiteCode:   worksite.Code,
		Status:         DefaultControlStatus,
	}
	assert.NoError(t, db.Create(control).Error)

	assert.Equal(t, "Jardín de Niños Cuatro", control.WorksiteName)
	assert.Equal(t, "Lic. Solís", control.Advisor)
	assert.Equal(t, "FEDERAL", control.SustainmentSystem)
	assert.Equal(t, uint(2024), control.Year)
	assert.Equal(t, "NO ATENDIDO", control.Status)
}

func TestInternalCaseSnapshotsWorksite(t *testing.T) {
	db := setupModelsTestDB()

	worksite := &Worksite{
		Code:              "31DES0005E",
		Name:              "Secundaria Cinco",
		SustainmentSystem: "FEDERAL TRANSFERIDO",
		ServiceModality:   "Secundaria",
	}
	assert.NoError(t, db.Create(worksite).Error)

	status := &CaseStatus{}
	status.Name = "Abierto"
	assert.NoError(t, db.Create(status).Error)

	initialType := &ProcedureType{}
	initialType.Name = "Otro"
	assert.NoError(t, db.Create(initialType).Error)

	internalCase := &InternalCase{
		WorksiteCode:  worksite.Code,
		OpenedAt:      *date(2024, time.July, 1),
		StatusID:      status.ID,
		InitialTypeID: initialType.ID,
		Subject:       "Queja por presunto maltrato",
	}
	assert.NoError(t, db.Create(internalCase).Error)

	assert.Equal(t, "Secundaria Cinco", internalCase.WorksiteName)
	assert.Equal(t, "FEDERAL", internalCase.SustainmentSystem)
	assert.Equal(t, "Secundaria", internalCase.ServiceModality)
}

func TestCatalogNamesUniquePerTable(t *testing.T) {
	db := setupModelsTestDB()

	first := &Diagnosis{}
	first.Name = "Maternidad"
	assert.NoError(t, db.Create(first).Error)

	duplicate := &Diagnosis{}
	duplicate.Name = "Maternidad"
	assert.Error(t, db.Create(duplicate).Error)

	// Same name in a different catalog table is fine.
	union := &Union{}
	union.Name = "Maternidad"
	assert.NoError(t, db.Create(union).Error)
}
