package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"licencias_flow_go/models"

	"gorm.io/gorm"
)

// sexMap translates the free-text sex column onto the single-letter enum.
var sexMap = map[string]string{
	"f":               models.SexFemale,
	"femenino":        models.SexFemale,
	"mujer":           models.SexFemale,
	"m":               models.SexMale,
	"masculino":       models.SexMale,
	"h":               models.SexMale,
	"hombre":          models.SexMale,
	"x":               models.SexUnspecified,
	"no especificado": models.SexUnspecified,
}

// statusMap translates the registry status column onto the closed enum.
var statusMap = map[string]string{
	"activo":         models.ProtocolStatusActive,
	"en seguimiento": models.ProtocolStatusFollowUp,
	"seguimiento":    models.ProtocolStatusFollowUp,
	"cerrado":        models.ProtocolStatusClosed,
	"cancelado":      models.ProtocolStatusCancelled,
}

// ReconcileResult summarizes one worksite-plus-registry reconciliation run.
type ReconcileResult struct {
	WorksitesCreated int
	WorksitesUpdated int
	RecordsCreated   int
	RecordsUpdated   int
	Errors           []string
}

// readCSVByHeader reads a CSV whose first row is the header and returns
// one map per data row. A UTF-8 BOM on the first header is stripped.
func readCSVByHeader(reader io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV has no header row")
	}

	headers := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, headersToValues(headers, record))
	}
	return rows, nil
}

// pickColumn returns the first non-empty value among the candidate
// headers. Exports vary in which spelling they carry.
func pickColumn(row map[string]string, candidates ...string) string {
	for _, candidate := range candidates {
		if value := strings.TrimSpace(row[candidate]); value != "" {
			return value
		}
	}
	return ""
}

// ImportWorksites upserts worksites keyed by CCT code from the official
// school-directory export. Rows without a code are skipped silently.
func ImportWorksites(tx *gorm.DB, rows []map[string]string, result *ReconcileResult) error {
	for _, row := range rows {
		code := strings.ToUpper(pickColumn(row, "CCT"))
		if code == "" {
			continue
		}

		worksite := models.Worksite{
			Code:              code,
			Name:              pickColumn(row, "c_nombre"),
			Advisor:           pickColumn(row, "ASESOR"),
			SustainmentSystem: pickColumn(row, "sostenimiento_c_subcontrol"),
			ServiceModality:   pickColumn(row, "tiponivelsub_c_servicion3"),
			Municipality:      pickColumn(row, "inmueble_c_nom_mun"),
			Shift:             pickColumn(row, "c_tuno_01", "Turno"),
		}

		var existing models.Worksite
		err := tx.First(&existing, "code = ?", code).Error
		switch {
		case err == nil:
			worksite.CreatedAt = existing.CreatedAt
			if err := tx.Save(&worksite).Error; err != nil {
				return err
			}
			result.WorksitesUpdated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&worksite).Error; err != nil {
				return err
			}
			result.WorksitesCreated++
		default:
			return err
		}
	}
	return nil
}

// ImportProtocols upserts registry records keyed by their external
// registry number. Row-level problems are recorded and the row skipped;
// they never abort the run.
func ImportProtocols(tx *gorm.DB, rows []map[string]string, result *ReconcileResult) error {
	for i, row := range rows {
		rowNum := i + 2

		rawID := pickColumn(row, "No.", "NO.", "ID")
		if rawID == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: sin número de registro.", rowNum))
			continue
		}
		registryNumber, err := strconv.ParseUint(strings.TrimSuffix(rawID, ".0"), 10, 64)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: número de registro inválido '%s'.", rowNum, rawID))
			continue
		}

		code := strings.ToUpper(pickColumn(row, "CCT"))
		if code == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: sin CCT.", rowNum))
			continue
		}
		var worksite models.Worksite
		if err := tx.First(&worksite, "code = ?", code).Error; err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: CCT '%s' no existe.", rowNum, code))
			continue
		}

		startDate := ParseRegistryDate(pickColumn(row, "Fecha de inicio"))
		if startDate == nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: fecha de inicio inválida '%s'.", rowNum, pickColumn(row, "Fecha de inicio")))
			continue
		}

		childName := pickColumn(row, "Nombre del NNA")

		sex, ok := sexMap[strings.ToLower(pickColumn(row, "SEXO"))]
		if !ok {
			sex = models.SexUnspecified
		}
		status, ok := statusMap[strings.ToLower(pickColumn(row, "Estatus"))]
		if !ok {
			status = models.ProtocolStatusActive
		}

		var violenceTypeID *string
		if name := pickColumn(row, "TIPO DE VIOLENCIA"); name != "" {
			violenceType, err := FindOrCreateCatalogByName[models.ViolenceType](tx, name)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: %s", rowNum, err.Error()))
				continue
			}
			violenceTypeID = &violenceType.ID
		}

		var year uint
		if rawYear := pickColumn(row, "AÑO", "AÑO."); rawYear != "" {
			if parsed, err := strconv.ParseUint(strings.TrimSuffix(rawYear, ".0"), 10, 64); err == nil {
				year = uint(parsed)
			}
		}

		record := models.ProtocolRecord{
			RegistryNumber: uint(registryNumber),
			WorksiteCode:   code,
			StartDate:      *startDate,
			Initials:       pickColumn(row, "INICIALES"),
			ChildName:      childName,
			Sex:            sex,
			ViolenceTypeID: violenceTypeID,
			Description:    SanitizeText(row["Descripción"]),
			LegalAdvisor:   pickColumn(row, "NOMBRE ASESOR JURIDICO"),
			Status:         status,
			Comments:       SanitizeText(row["Comentarios"]),
			Year:           year,
		}

		var existing models.ProtocolRecord
		err = tx.First(&existing, "registry_number = ?", record.RegistryNumber).Error
		switch {
		case err == nil:
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
			if err := tx.Save(&record).Error; err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: %s", rowNum, err.Error()))
				continue
			}
			result.RecordsUpdated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&record).Error; err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: %s", rowNum, err.Error()))
				continue
			}
			result.RecordsCreated++
		default:
			return err
		}
	}
	return nil
}

// ReconcileFromCSV loads the worksite directory and then the protocol
// registry inside a single transaction. Row errors are collected;
// only infrastructure failures roll the run back.
func ReconcileFromCSV(db *gorm.DB, cctPath, protocolsPath string) (*ReconcileResult, error) {
	cctFile, err := os.Open(cctPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open worksite file: %w", err)
	}
	defer cctFile.Close()

	protocolsFile, err := os.Open(protocolsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open protocols file: %w", err)
	}
	defer protocolsFile.Close()

	return Reconcile(db, cctFile, protocolsFile)
}

// Reconcile runs both import phases over already-open readers.
func Reconcile(db *gorm.DB, cctReader, protocolsReader io.Reader) (*ReconcileResult, error) {
	cctRows, err := readCSVByHeader(cctReader)
	if err != nil {
		return nil, err
	}
	protocolRows, err := readCSVByHeader(protocolsReader)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := ImportWorksites(tx, cctRows, result); err != nil {
			return err
		}
		return ImportProtocols(tx, protocolRows, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
