package services

import (
	"errors"

	"licencias_flow_go/models"

	"gorm.io/gorm"
)

type seedEntry struct {
	Name        string
	Description string
}

// SeedSummary counts what a seeding run created per catalog.
type SeedSummary struct {
	Created map[string]int
}

func seedCatalog[T any, PT interface {
	*T
	catalogEntry
}](db *gorm.DB, label string, entries []seedEntry, summary *SeedSummary, describe func(PT, seedEntry)) error {
	for _, entry := range entries {
		_, err := FindCatalogByName[T, PT](db, entry.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		record := PT(new(T))
		record.SetName(entry.Name)
		if describe != nil {
			describe(record, entry)
		}
		if err := db.Create(record).Error; err != nil {
			return err
		}
		summary.Created[label]++
	}
	return nil
}

// SeedCatalogs inserts the baseline catalog entries. Existing entries
// are left untouched, so the command is safe to re-run.
func SeedCatalogs(db *gorm.DB) (*SeedSummary, error) {
	summary := &SeedSummary{Created: map[string]int{}}

	subsystems := []seedEntry{
		{"Federal", "Subsistema Federal"},
		{"Estatal", "Subsistema Estatal"},
	}
	if err := seedCatalog[models.Subsystem](db, "subsistemas", subsystems, summary, func(s *models.Subsystem, e seedEntry) {
		s.Description = e.Description
	}); err != nil {
		return nil, err
	}

	procedureTypes := []seedEntry{
		{"Licencia 754", "Licencia tipo 754"},
		{"70 BIS", "Licencia 70 BIS"},
		{"Cambio de Función", "Trámite de cambio de función"},
		{"Cambio de actividad", "Trámite de cambio de actividad"},
		{"Otro", "Otro tipo de trámite"},
	}
	if err := seedCatalog[models.ProcedureType](db, "tipos de trámite", procedureTypes, summary, func(t *models.ProcedureType, e seedEntry) {
		t.Description = e.Description
	}); err != nil {
		return nil, err
	}

	unions := []seedEntry{
		{"SYTTE", "Sindicato SYTTE"},
		{"SNTE sección 33", "SNTE sección 33"},
		{"SNTE sección 57", "SNTE sección 57"},
		{"SETEY", "Sindicato SETEY"},
		{"GNTE", "Sindicato GNTE"},
	}
	if err := seedCatalog[models.Union](db, "sindicatos", unions, summary, func(u *models.Union, e seedEntry) {
		u.Description = e.Description
	}); err != nil {
		return nil, err
	}

	diagnoses := []seedEntry{
		{"Enfermedad crónica", "Enfermedad crónica"},
		{"Incapacidad temporal", "Incapacidad temporal"},
		{"Maternidad", "Licencia por maternidad"},
		{"Cuidado familiar", "Cuidado de familiar"},
		{"Otro", "Otro diagnóstico"},
	}
	if err := seedCatalog[models.Diagnosis](db, "diagnósticos", diagnoses, summary, func(d *models.Diagnosis, e seedEntry) {
		d.Description = e.Description
	}); err != nil {
		return nil, err
	}

	areas := []seedEntry{
		{"Subsecretaría", "Subsecretaría"},
		{"Subd. de Org. y Adm. de Personal -DAF", "Subdirección de Organización y Administración de Personal"},
		{"Nivel Educativo", "Nivel Educativo"},
	}
	if err := seedCatalog[models.Area](db, "áreas", areas, summary, func(a *models.Area, e seedEntry) {
		a.Description = e.Description
	}); err != nil {
		return nil, err
	}

	results := []seedEntry{
		{"Autorizado", "Trámite autorizado"},
		{"Rechazado", "Trámite rechazado"},
		{"En proceso", "Trámite en proceso"},
		{"Pendiente", "Trámite pendiente"},
	}
	if err := seedCatalog[models.Result](db, "resultados", results, summary, func(r *models.Result, e seedEntry) {
		r.Description = e.Description
	}); err != nil {
		return nil, err
	}

	caseStatuses := []seedEntry{
		{"Abierto", "Caso abierto"},
		{"En seguimiento", "Caso en seguimiento"},
		{"Cerrado", "Caso cerrado"},
	}
	if err := seedCatalog[models.CaseStatus](db, "estatus de caso", caseStatuses, summary, func(s *models.CaseStatus, e seedEntry) {
		s.Description = e.Description
	}); err != nil {
		return nil, err
	}

	if err := seedStages(db, summary); err != nil {
		return nil, err
	}

	return summary, nil
}

// seedStages inserts the workflow stages in transition order. Cierre is
// the only final stage.
func seedStages(db *gorm.DB, summary *SeedSummary) error {
	stages := []struct {
		Name    string
		Order   int
		IsFinal bool
	}{
		{"Ingreso", 1, false},
		{"Integración", 2, false},
		{"Visto Bueno", 3, false},
		{"Resolución", 4, false},
		{"Notificación", 5, false},
		{"Cierre", 6, true},
	}
	for _, entry := range stages {
		var existing models.Stage
		err := db.Where("LOWER(name) = LOWER(?)", entry.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		stage := models.Stage{Order: entry.Order, IsFinal: entry.IsFinal}
		stage.Name = entry.Name
		if err := db.Create(&stage).Error; err != nil {
			return err
		}
		summary.Created["etapas"]++
	}
	return nil
}
