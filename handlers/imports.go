package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"licencias_flow_go/config"
	"licencias_flow_go/db"
	"licencias_flow_go/models"
	"licencias_flow_go/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetImportTemplateHandler serves the Excel template for case imports.
func GetImportTemplateHandler(c echo.Context) error {
	buf, err := services.GenerateImportTemplate(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate template")
	}

	filename := fmt.Sprintf("plantilla_tramites_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set("Content-Disposition", "attachment; filename="+filename)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportProceduresHandler serves the procedure list as an Excel sheet.
func ExportProceduresHandler(c echo.Context) error {
	buf, err := services.ExportProcedures(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export procedures")
	}

	filename := fmt.Sprintf("tramites_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set("Content-Disposition", "attachment; filename="+filename)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func openFormFile(c echo.Context, field string) (multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing file %q", field)
	}
	return header.Open()
}

// ImportProceduresHandler handles the CSV upload for case imports.
func ImportProceduresHandler(cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		src, err := openFormFile(c, "file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		defer src.Close()

		createCatalogs := strings.EqualFold(c.FormValue("create_missing_catalogs"), "true")

		var actor *models.User
		if username := strings.TrimSpace(c.FormValue("username")); username != "" {
			actor, err = services.FindUserByUsername(db.DB, username)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
		}

		startedAt := time.Now()
		result, err := services.LoadProceduresFromCSV(db.DB, src, createCatalogs, actor)
		if err != nil {
			return jsonError(c, err)
		}

		if actor != nil && actor.Email != "" {
			services.SendEmailAsync(cfg, services.BuildImportSummaryEmail(actor.Email, result, startedAt))
		}

		type rowReport struct {
			Row      int      `json:"row"`
			Errors   []string `json:"errors,omitempty"`
			Warnings []string `json:"warnings,omitempty"`
			Folio    string   `json:"folio,omitempty"`
		}
		loaded := make([]rowReport, 0, len(result.Loaded))
		for _, outcome := range result.Loaded {
			loaded = append(loaded, rowReport{Row: outcome.Index, Warnings: outcome.Warnings, Folio: outcome.Procedure.Folio})
		}
		failed := make([]rowReport, 0, len(result.Failed))
		for _, outcome := range result.Failed {
			failed = append(failed, rowReport{Row: outcome.Index, Errors: outcome.Errors, Warnings: outcome.Warnings})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"total":  result.Total(),
			"loaded": loaded,
			"failed": failed,
		})
	}
}

// ReconcileProtocolsHandler handles the two-file protocol registry
// reconciliation upload.
func ReconcileProtocolsHandler(c echo.Context) error {
	cctFile, err := openFormFile(c, "cct_file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	defer cctFile.Close()

	protocolsFile, err := openFormFile(c, "protocols_file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	defer protocolsFile.Close()

	result, err := services.Reconcile(db.DB, cctFile, protocolsFile)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
