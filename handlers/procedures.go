package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"licencias_flow_go/db"
	"licencias_flow_go/models"
	"licencias_flow_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const defaultPageSize = 25

// ListProceduresHandler returns a paginated procedure list with
// optional stage and free-text filters.
func ListProceduresHandler(c echo.Context) error {
	query := db.DB.Model(&models.Procedure{}).
		Preload("CurrentStage").
		Preload("ProcedureType").
		Preload("Subsystem")

	if stageID := c.QueryParam("stage_id"); stageID != "" {
		query = query.Where("current_stage_id = ?", stageID)
	}
	if search := strings.TrimSpace(c.QueryParam("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(worker_name) LIKE ? OR LOWER(folio) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return jsonError(c, err)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 || pageSize > 200 {
		pageSize = defaultPageSize
	}

	var procedures []models.Procedure
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&procedures).Error
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     procedures,
	})
}

// GetProcedureHandler returns one procedure with its full detail.
func GetProcedureHandler(c echo.Context) error {
	var procedure models.Procedure
	err := db.DB.
		Preload("CurrentStage").
		Preload("ProcedureType").
		Preload("Subsystem").
		Preload("Diagnosis").
		Preload("Union").
		Preload("Result").
		Preload("ResponsibleUser").
		Preload("Notifications").
		Preload("Letters").
		Preload("Movements", func(q *gorm.DB) *gorm.DB { return q.Order("occurred_at DESC") }).
		First(&procedure, "id = ?", c.Param("id")).Error
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, procedure)
}

// CreateProcedureHandler registers a new procedure. Validation and
// folio assignment run in the model hooks.
func CreateProcedureHandler(c echo.Context) error {
	var procedure models.Procedure
	if err := c.Bind(&procedure); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	procedure.ID = ""
	procedure.Folio = ""
	procedure.Contact = services.SanitizeText(procedure.Contact)
	procedure.Observations = services.SanitizeText(procedure.Observations)
	procedure.IntegrationIncidents = services.SanitizeText(procedure.IntegrationIncidents)
	procedure.ApprovalIncidents = services.SanitizeText(procedure.ApprovalIncidents)

	if procedure.CurrentStageID == "" {
		stage, err := services.ResolveInitialStage(db.DB)
		if err != nil {
			return jsonError(c, err)
		}
		procedure.CurrentStageID = stage.ID
	}

	if err := db.DB.Create(&procedure).Error; err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, procedure)
}

// UpdateProcedureHandler applies a partial update. The stage cannot be
// changed here; stage moves go through the movement endpoint.
func UpdateProcedureHandler(c echo.Context) error {
	var procedure models.Procedure
	if err := db.DB.First(&procedure, "id = ?", c.Param("id")).Error; err != nil {
		return jsonError(c, err)
	}

	var payload models.Procedure
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	payload.ID = procedure.ID
	payload.Folio = procedure.Folio
	payload.CurrentStageID = procedure.CurrentStageID
	payload.CurrentStage = nil
	payload.CreatedAt = procedure.CreatedAt
	payload.Contact = services.SanitizeText(payload.Contact)
	payload.Observations = services.SanitizeText(payload.Observations)
	payload.IntegrationIncidents = services.SanitizeText(payload.IntegrationIncidents)
	payload.ApprovalIncidents = services.SanitizeText(payload.ApprovalIncidents)

	if err := db.DB.Save(&payload).Error; err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, payload)
}

type changeStageRequest struct {
	StageID string `json:"stage_id"`
	ActorID string `json:"actor_id"`
	Comment string `json:"comment"`
}

// ChangeStageHandler moves a procedure to a new stage and records the
// movement.
func ChangeStageHandler(c echo.Context) error {
	var req changeStageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	var actorID *string
	if req.ActorID != "" {
		actorID = &req.ActorID
	}

	movement, err := services.ChangeStage(db.DB, c.Param("id"), req.StageID, actorID, services.SanitizeText(req.Comment))
	if err != nil {
		return jsonError(c, err)
	}
	if movement == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusCreated, movement)
}

// ListMovementsHandler returns a procedure's audit trail, newest first.
func ListMovementsHandler(c echo.Context) error {
	var movements []models.Movement
	err := db.DB.
		Preload("PreviousStage").
		Preload("NewStage").
		Preload("Actor").
		Where("procedure_id = ?", c.Param("id")).
		Order("occurred_at DESC").
		Find(&movements).Error
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, movements)
}
