package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"licencias_flow_go/models"

	"gorm.io/gorm"
)

// procedureColumnMap maps the Spanish spreadsheet headers to internal
// field names. Headers are matched exactly.
var procedureColumnMap = map[string]string{
	"Persona que trabaja el trámite":                     "persona_tramita",
	"Licencia o trámite":                                 "tipo_tramite",
	"Federal/ Estatal":                                   "subsistema",
	"Trámite Inicial o prórroga":                         "tramite_inicial_o_prorroga",
	"Nombre del trabajador":                              "trabajador_nombre",
	"DIAGNOSTICO":                                        "diagnostico",
	"Nombre del sindicato":                               "sindicato",
	"Contacto del trabajador y/o sindicato":              "contacto",
	"Número de oficio del sindicato o escrito de origen": "oficio_origen_num",
	"Fecha de recepción del oficio del sindicato o escrito del trabajador en el nivel educativo":                                                   "fecha_recepcion_nivel",
	"Incidencias para la Integración del expediente/ prevención/ o contestación negativa del trámite":                                              "incidencias_integracion",
	"Oficio de envío a la Subsecretaría / PRÓRROGAS de licencias":                                                                                  "oficio_envio_subsecretaria",
	"Fecha de recepción en la Subsecretaría /PRÓRROGAS de licencias":                                                                               "fecha_recepcion_subsecretaria",
	"Incidencias para el visto bueno de la Subsecretaría":                                                                                          "incidencias_vobo",
	"Número de oficio y fecha de Visto Bueno de la Subsecretaría":                                                                                  "vobo_num_y_fecha",
	"Oficio de envío a Recursos Humanos de la Secretaría de Administración y Finanzas del Gobierno del Estado":                                     "oficio_envio_rh",
	"Fecha de recepción del área de Recursos Humanos":                                                                                              "fecha_recepcion_rh",
	"Número de oficio y fecha de la resolución emitida por Recursos Humanos de la Secretaría de Administración y Finanzas del Gobierno del Estado": "oficio_resolucion_num_y_fecha",
	"RESULTADO DE LA RESOLUCIÓN EMITIDA POR RECURSOS HUMANOS":                                                                                      "resultado_resolucion",
	"Número de oficio y fecha de notificacíon al sindicato sobre la resolución.":                                                                   "notif_sindicato",
	"Número de oficio y fecha de la notificación al trabajador sobre la resolución.":                                                               "notif_trabajador",
	"Fecha en la se realizó la notificacion al sindicato":                                                                                          "fecha_notif_sindicato",
	"Fecha en la se realizó la notificación al trabajador":                                                                                         "fecha_notif_trabajador",
}

// notificationColumns pairs the letter-text column with its date column
// and the recipient the derived notification is addressed to.
var notificationColumns = []struct {
	TextField string
	DateField string
	Recipient string
}{
	{"notif_sindicato", "fecha_notif_sindicato", models.RecipientUnion},
	{"notif_trabajador", "fecha_notif_trabajador", models.RecipientWorker},
}

// RowOutcome is the transient result of importing one row. Never
// persisted; aggregated into a ProcedureImportResult.
type RowOutcome struct {
	Index     int
	Data      map[string]string
	Errors    []string
	Warnings  []string
	Procedure *models.Procedure
}

// ProcedureImportResult summarizes a case import run.
type ProcedureImportResult struct {
	Loaded []RowOutcome
	Failed []RowOutcome
}

// Total returns the number of processed rows
func (r *ProcedureImportResult) Total() int {
	return len(r.Loaded) + len(r.Failed)
}

// NormalizeRequestKind reduces free text to the closed request-kind
// enum by substring match.
func NormalizeRequestKind(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return models.RequestKindUnknown
	}
	if strings.Contains(value, "inicial") {
		return models.RequestKindInitial
	}
	if strings.Contains(value, "prórroga") || strings.Contains(value, "prorroga") {
		return models.RequestKindExtension
	}
	return models.RequestKindUnknown
}

// ResolveInitialStage picks the stage imported procedures start in:
// the first stage whose name contains "ingreso", else the lowest-ordered
// stage, else a fresh "Ingreso" stage.
func ResolveInitialStage(db *gorm.DB) (*models.Stage, error) {
	var stage models.Stage
	err := db.Where("LOWER(name) LIKE ?", "%ingreso%").First(&stage).Error
	if err == nil {
		return &stage, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = db.Order("`order` ASC").First(&stage).Error
	if err == nil {
		return &stage, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	stage = models.Stage{Order: 1}
	stage.Name = "Ingreso"
	if err := db.Create(&stage).Error; err != nil {
		return nil, fmt.Errorf("failed to create initial stage: %w", err)
	}
	return &stage, nil
}

// LoadProceduresFromCSV reads a case export: one banner row, then the
// header row, then data. Each row is validated in isolation and
// persisted in its own transaction; a failed row never leaves partial
// writes behind.
func LoadProceduresFromCSV(db *gorm.DB, reader io.Reader, createCatalogs bool, actor *models.User) (*ProcedureImportResult, error) {
	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV has no header row")
	}

	headers := records[1]
	var rows [][]string
	if len(records) > 2 {
		rows = records[2:]
	}
	return LoadProceduresFromRows(db, headers, rows, createCatalogs, actor)
}

// LoadProceduresFromRows runs the case import over already-split rows.
func LoadProceduresFromRows(db *gorm.DB, headers []string, rows [][]string, createCatalogs bool, actor *models.User) (*ProcedureImportResult, error) {
	result := &ProcedureImportResult{}

	initialStage, err := ResolveInitialStage(db)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		outcome := RowOutcome{Index: i + 2, Data: rowToMap(headers, row)}

		procedure := buildProcedureFromRow(db, &outcome, initialStage, createCatalogs, actor)
		if len(outcome.Errors) > 0 {
			result.Failed = append(result.Failed, outcome)
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(procedure).Error; err != nil {
				return err
			}
			return createDerivedNotifications(tx, procedure, &outcome)
		})
		if err != nil {
			outcome.Errors = append(outcome.Errors, err.Error())
			result.Failed = append(result.Failed, outcome)
			continue
		}

		outcome.Procedure = procedure
		result.Loaded = append(result.Loaded, outcome)
	}

	return result, nil
}

func rowToMap(headers []string, row []string) map[string]string {
	fields := make(map[string]string, len(procedureColumnMap))
	for col, value := range headersToValues(headers, row) {
		if field, ok := procedureColumnMap[col]; ok {
			fields[field] = value
		}
	}
	return fields
}

func headersToValues(headers []string, row []string) map[string]string {
	values := make(map[string]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(strings.TrimPrefix(header, "\uFEFF"))
		if header == "" {
			continue
		}
		value := ""
		if i < len(row) {
			value = strings.TrimSpace(row[i])
		}
		values[header] = value
	}
	return values
}

// buildProcedureFromRow maps, resolves and validates one row. All
// problems are accumulated on the outcome; the row is only rejected
// after every check has run.
func buildProcedureFromRow(db *gorm.DB, outcome *RowOutcome, initialStage *models.Stage, createCatalogs bool, actor *models.User) *models.Procedure {
	fields := outcome.Data

	procedureType := resolveCatalogField[models.ProcedureType](db, fields["tipo_tramite"], "Licencia o trámite", createCatalogs, outcome)
	subsystem := resolveCatalogField[models.Subsystem](db, fields["subsistema"], "Subsistema", createCatalogs, outcome)
	diagnosis := resolveCatalogField[models.Diagnosis](db, fields["diagnostico"], "Diagnóstico", createCatalogs, outcome)
	union := resolveCatalogField[models.Union](db, fields["sindicato"], "Sindicato", createCatalogs, outcome)
	resolutionResult := resolveCatalogField[models.Result](db, fields["resultado_resolucion"], "Resultado", createCatalogs, outcome)

	procedure := &models.Procedure{
		CurrentStageID:          initialStage.ID,
		CurrentStage:            initialStage,
		RequestKind:             NormalizeRequestKind(fields["tramite_inicial_o_prorroga"]),
		WorkerName:              strings.TrimSpace(fields["trabajador_nombre"]),
		Contact:                 SanitizeText(fields["contacto"]),
		OriginLetterNumber:      strings.TrimSpace(fields["oficio_origen_num"]),
		ReceivedAtLevel:         parseRowDate(fields, "fecha_recepcion_nivel", outcome),
		IntegrationIncidents:    SanitizeText(fields["incidencias_integracion"]),
		SubOfficeLetterNumber:   strings.TrimSpace(fields["oficio_envio_subsecretaria"]),
		ReceivedAtSubOffice:     parseRowDate(fields, "fecha_recepcion_subsecretaria", outcome),
		ApprovalIncidents:       SanitizeText(fields["incidencias_vobo"]),
		ApprovalLetterAndDate:   strings.TrimSpace(fields["vobo_num_y_fecha"]),
		HRLetterNumber:          strings.TrimSpace(fields["oficio_envio_rh"]),
		ReceivedAtHR:            parseRowDate(fields, "fecha_recepcion_rh", outcome),
		ResolutionLetterAndDate: strings.TrimSpace(fields["oficio_resolucion_num_y_fecha"]),
		HandledBy:               strings.TrimSpace(fields["persona_tramita"]),
	}

	if procedureType != nil {
		procedure.ProcedureTypeID = procedureType.ID
	}
	if subsystem != nil {
		procedure.SubsystemID = subsystem.ID
	}
	if diagnosis != nil {
		procedure.DiagnosisID = &diagnosis.ID
	}
	if union != nil {
		procedure.UnionID = &union.ID
	}
	if resolutionResult != nil {
		procedure.ResultID = &resolutionResult.ID
	}
	if actor != nil {
		procedure.ResponsibleUserID = &actor.ID
	}

	if err := models.ValidateChronologicalDates(procedure); err != nil {
		outcome.Errors = append(outcome.Errors, err.Error())
	}
	if err := models.ValidateFieldsForStage(db, procedure); err != nil {
		outcome.Errors = append(outcome.Errors, err.Error())
	}

	if procedure.WorkerName == "" {
		outcome.Errors = append(outcome.Errors, "Nombre del trabajador es obligatorio.")
	}
	if procedureType == nil {
		outcome.Errors = append(outcome.Errors, "Tipo de trámite es obligatorio.")
	}
	if subsystem == nil {
		outcome.Errors = append(outcome.Errors, "Subsistema es obligatorio.")
	}

	return procedure
}

// resolveCatalogField resolves one catalog-typed cell. An empty cell is
// nil without error; a missing entry is only an error when creation is
// disallowed. Required-field checks happen separately.
func resolveCatalogField[T any, PT interface {
	*T
	catalogEntry
}](db *gorm.DB, value, label string, create bool, outcome *RowOutcome) *T {
	name := strings.TrimSpace(value)
	if name == "" {
		return nil
	}

	if create {
		entry, err := FindOrCreateCatalogByName[T, PT](db, name)
		if err != nil {
			outcome.Errors = append(outcome.Errors, err.Error())
			return nil
		}
		return entry
	}

	entry, err := FindCatalogByName[T, PT](db, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("Valor '%s' no existe en %s.", name, label))
		} else {
			outcome.Errors = append(outcome.Errors, err.Error())
		}
		return nil
	}
	return entry
}

// parseRowDate parses a date cell leniently. An unparseable non-empty
// value loads as null but is surfaced as a row warning.
func parseRowDate(fields map[string]string, field string, outcome *RowOutcome) *time.Time {
	raw := strings.TrimSpace(fields[field])
	if raw == "" {
		return nil
	}
	parsed := ParseLenientDate(raw)
	if parsed == nil {
		outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("Fecha no reconocida en %s: '%s'.", field, raw))
	}
	return parsed
}

// createDerivedNotifications records one notification per recipient
// column pair that has either a letter number or a date populated.
func createDerivedNotifications(tx *gorm.DB, procedure *models.Procedure, outcome *RowOutcome) error {
	for _, col := range notificationColumns {
		text := strings.TrimSpace(outcome.Data[col.TextField])
		date := parseRowDate(outcome.Data, col.DateField, outcome)
		if text == "" && date == nil {
			continue
		}
		notification := models.Notification{
			ProcedureID:  procedure.ID,
			Recipient:    col.Recipient,
			LetterNumber: text,
			Date:         date,
		}
		if err := tx.Create(&notification).Error; err != nil {
			return err
		}
	}
	return nil
}
