package handlers

import (
	"net/http"

	"licencias_flow_go/db"
	"licencias_flow_go/models"
	"licencias_flow_go/services"

	"github.com/labstack/echo/v4"
)

// catalogModels maps the URL segment onto the backing catalog model.
var catalogModels = map[string]func() interface{}{
	"subsistemas":     func() interface{} { return &[]models.Subsystem{} },
	"tipos-tramite":   func() interface{} { return &[]models.ProcedureType{} },
	"sindicatos":      func() interface{} { return &[]models.Union{} },
	"diagnosticos":    func() interface{} { return &[]models.Diagnosis{} },
	"areas":           func() interface{} { return &[]models.Area{} },
	"resultados":      func() interface{} { return &[]models.Result{} },
	"tipos-violencia": func() interface{} { return &[]models.ViolenceType{} },
	"solicitantes":    func() interface{} { return &[]models.Requester{} },
	"destinatarios":   func() interface{} { return &[]models.Addressee{} },
	"estatus-caso":    func() interface{} { return &[]models.CaseStatus{} },
}

// ListCatalogHandler returns the active entries of one catalog.
func ListCatalogHandler(c echo.Context) error {
	factory, ok := catalogModels[c.Param("kind")]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown catalog"})
	}

	entries := factory()
	err := db.DB.Where("is_active = ?", true).Order("name ASC").Find(entries).Error
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// ListStagesHandler returns the active stages in workflow order.
func ListStagesHandler(c echo.Context) error {
	stages, err := services.ActiveStages(db.DB)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, stages)
}

// KPISummaryHandler returns the operational dashboard figures.
func KPISummaryHandler(c echo.Context) error {
	summary, err := services.BuildKPISummary(db.DB)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
