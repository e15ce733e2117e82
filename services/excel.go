package services

import (
	"bytes"
	"fmt"
	"time"

	"licencias_flow_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// templateColumns is the column order of the import template and of the
// procedure export sheet. It mirrors the spreadsheet the office keeps.
var templateColumns = []string{
	"Persona que trabaja el trámite",
	"Licencia o trámite",
	"Federal/ Estatal",
	"Trámite Inicial o prórroga",
	"Nombre del trabajador",
	"DIAGNOSTICO",
	"Nombre del sindicato",
	"Contacto del trabajador y/o sindicato",
	"Número de oficio del sindicato o escrito de origen",
	"Fecha de recepción del oficio del sindicato o escrito del trabajador en el nivel educativo",
	"Incidencias para la Integración del expediente/ prevención/ o contestación negativa del trámite",
	"Oficio de envío a la Subsecretaría / PRÓRROGAS de licencias",
	"Fecha de recepción en la Subsecretaría /PRÓRROGAS de licencias",
	"Incidencias para el visto bueno de la Subsecretaría",
	"Número de oficio y fecha de Visto Bueno de la Subsecretaría",
	"Oficio de envío a Recursos Humanos de la Secretaría de Administración y Finanzas del Gobierno del Estado",
	"Fecha de recepción del área de Recursos Humanos",
	"Número de oficio y fecha de la resolución emitida por Recursos Humanos de la Secretaría de Administración y Finanzas del Gobierno del Estado",
	"RESULTADO DE LA RESOLUCIÓN EMITIDA POR RECURSOS HUMANOS",
	"Número de oficio y fecha de notificacíon al sindicato sobre la resolución.",
	"Número de oficio y fecha de la notificación al trabajador sobre la resolución.",
	"Fecha en la se realizó la notificacion al sindicato",
	"Fecha en la se realizó la notificación al trabajador",
}

// GenerateImportTemplate builds the Excel template users fill out before
// a case import. One instructions sheet plus the data sheet with the
// expected headers and an example row.
func GenerateImportTemplate(dbConn *gorm.DB) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetInstructions := "Instrucciones"
	f.SetSheetName("Sheet1", sheetInstructions)

	f.SetCellValue(sheetInstructions, "A1", "Plantilla de importación de trámites")
	f.SetCellValue(sheetInstructions, "A3", "Consideraciones:")
	f.SetCellValue(sheetInstructions, "A4", "- No modifique los encabezados de la hoja Trámites.")
	f.SetCellValue(sheetInstructions, "A5", "- Las fechas se capturan como día/mes/año (ej. 15/03/2025).")
	f.SetCellValue(sheetInstructions, "A6", "- Nombre del trabajador, tipo de trámite y subsistema son obligatorios.")
	f.SetCellValue(sheetInstructions, "A7", "- Los valores de catálogo deben existir, salvo que la importación se ejecute con creación de catálogos.")

	f.SetCellValue(sheetInstructions, "A9", "Catálogos vigentes")
	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	f.SetCellStyle(sheetInstructions, "A9", "A9", titleStyle)

	row := 10
	row = writeCatalogList[models.ProcedureType](dbConn, f, sheetInstructions, "Tipos de trámite", row)
	row = writeCatalogList[models.Subsystem](dbConn, f, sheetInstructions, "Subsistemas", row)
	row = writeCatalogList[models.Union](dbConn, f, sheetInstructions, "Sindicatos", row)
	writeCatalogList[models.Diagnosis](dbConn, f, sheetInstructions, "Diagnósticos", row)

	mainTitleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	f.SetCellStyle(sheetInstructions, "A1", "A1", mainTitleStyle)
	f.SetColWidth(sheetInstructions, "A", "A", 90)

	sheetData := "Trámites"
	f.NewSheet(sheetData)
	for i, header := range templateColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetData, cell, header)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(templateColumns))
	f.SetColWidth(sheetData, "A", lastCol, 28)

	f.SetCellValue(sheetData, "A2", "Lic. García")
	f.SetCellValue(sheetData, "B2", "Licencia 754")
	f.SetCellValue(sheetData, "C2", "Federal")
	f.SetCellValue(sheetData, "D2", "Trámite inicial")
	f.SetCellValue(sheetData, "E2", "Juan Pérez López")
	f.SetCellValue(sheetData, "G2", "SYTTE")
	f.SetCellValue(sheetData, "J2", time.Now().Format("02/01/2006"))

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheetData, "A1", lastCol+"1", headerStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}

func writeCatalogList[T any, PT interface {
	*T
	catalogEntry
}](dbConn *gorm.DB, f *excelize.File, sheet, title string, row int) int {
	var entries []T
	if err := dbConn.Where("is_active = ?", true).Order("name ASC").Find(&entries).Error; err != nil {
		return row
	}
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), title+":")
	row++
	for i := range entries {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "- "+PT(&entries[i]).GetName())
		row++
	}
	return row + 1
}

// ExportProcedures writes the current procedure list to an Excel sheet
// in the same column layout as the import template.
func ExportProcedures(dbConn *gorm.DB) (*bytes.Buffer, error) {
	var procedures []models.Procedure
	err := dbConn.
		Preload("CurrentStage").
		Preload("ProcedureType").
		Preload("Subsystem").
		Preload("Diagnosis").
		Preload("Union").
		Preload("Result").
		Preload("Notifications").
		Order("folio ASC").
		Find(&procedures).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load procedures: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Trámites"
	f.SetSheetName("Sheet1", sheet)

	headers := append([]string{"Folio", "Etapa"}, templateColumns...)
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for rowIdx, p := range procedures {
		values := exportRow(&p)
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)
	f.SetColWidth(sheet, "A", lastCol, 24)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}

func exportRow(p *models.Procedure) []string {
	catalogName := func(entry interface{ GetName() string }) string {
		if entry == nil {
			return ""
		}
		return entry.GetName()
	}
	formatDate := func(date *time.Time) string {
		if date == nil {
			return ""
		}
		return date.Format("02/01/2006")
	}

	stageName := ""
	if p.CurrentStage != nil {
		stageName = p.CurrentStage.Name
	}

	var unionNotif, workerNotif models.Notification
	for _, n := range p.Notifications {
		switch n.Recipient {
		case models.RecipientUnion:
			unionNotif = n
		case models.RecipientWorker:
			workerNotif = n
		}
	}

	var diagnosisName, unionName, resultName string
	if p.Diagnosis != nil {
		diagnosisName = catalogName(p.Diagnosis)
	}
	if p.Union != nil {
		unionName = catalogName(p.Union)
	}
	if p.Result != nil {
		resultName = catalogName(p.Result)
	}
	var typeName, subsystemName string
	if p.ProcedureType != nil {
		typeName = catalogName(p.ProcedureType)
	}
	if p.Subsystem != nil {
		subsystemName = catalogName(p.Subsystem)
	}

	return []string{
		p.Folio,
		stageName,
		p.HandledBy,
		typeName,
		subsystemName,
		p.RequestKind,
		p.WorkerName,
		diagnosisName,
		unionName,
		p.Contact,
		p.OriginLetterNumber,
		formatDate(p.ReceivedAtLevel),
		p.IntegrationIncidents,
		p.SubOfficeLetterNumber,
		formatDate(p.ReceivedAtSubOffice),
		p.ApprovalIncidents,
		p.ApprovalLetterAndDate,
		p.HRLetterNumber,
		formatDate(p.ReceivedAtHR),
		p.ResolutionLetterAndDate,
		resultName,
		unionNotif.LetterNumber,
		workerNotif.LetterNumber,
		formatDate(unionNotif.Date),
		formatDate(workerNotif.Date),
	}
}
