package handlers

import (
	"net/http"
	"strings"

	"licencias_flow_go/db"
	"licencias_flow_go/models"
	"licencias_flow_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ListInternalControlsHandler returns internal-control records filtered
// by status, year or worksite.
func ListInternalControlsHandler(c echo.Context) error {
	query := db.DB.Model(&models.InternalControl{}).Preload("Worksite")

	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		query = query.Where("status = ?", status)
	}
	if year := c.QueryParam("year"); year != "" {
		query = query.Where("year = ?", year)
	}
	if code := strings.TrimSpace(c.QueryParam("worksite_code")); code != "" {
		query = query.Where("worksite_code = ?", strings.ToUpper(code))
	}

	var controls []models.InternalControl
	if err := query.Order("created_at DESC").Find(&controls).Error; err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, controls)
}

// CreateInternalControlHandler registers a memorandum record.
func CreateInternalControlHandler(c echo.Context) error {
	var control models.InternalControl
	if err := c.Bind(&control); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	control.ID = ""
	control.Observations = services.SanitizeText(control.Observations)
	control.Comments = services.SanitizeText(control.Comments)
	if control.Status == "" {
		control.Status = models.DefaultControlStatus
	}

	if err := db.DB.Create(&control).Error; err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, control)
}

type controlStatusRequest struct {
	Status  string `json:"status"`
	ActorID string `json:"actor_id"`
}

// ChangeControlStatusHandler updates a control's status and appends the
// history entry. Repeating the current status is a no-op.
func ChangeControlStatusHandler(c echo.Context) error {
	var req controlStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	var actorID *string
	if req.ActorID != "" {
		actorID = &req.ActorID
	}

	var control models.InternalControl
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&control, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}
		previous := control.Status
		control.Status = strings.TrimSpace(req.Status)
		if err := tx.Save(&control).Error; err != nil {
			return err
		}
		return services.RecordControlStatusChange(tx, &control, actorID, previous, control.Status)
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, control)
}

// ListInternalCasesHandler returns internal cases, optionally filtered
// by status or worksite.
func ListInternalCasesHandler(c echo.Context) error {
	query := db.DB.Model(&models.InternalCase{}).
		Preload("Worksite").
		Preload("Status").
		Preload("InitialType")

	if statusID := c.QueryParam("status_id"); statusID != "" {
		query = query.Where("status_id = ?", statusID)
	}
	if code := strings.TrimSpace(c.QueryParam("worksite_code")); code != "" {
		query = query.Where("worksite_code = ?", strings.ToUpper(code))
	}

	var cases []models.InternalCase
	if err := query.Order("opened_at DESC").Find(&cases).Error; err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, cases)
}

// CreateInternalCaseHandler opens a case for a worksite.
func CreateInternalCaseHandler(c echo.Context) error {
	var internalCase models.InternalCase
	if err := c.Bind(&internalCase); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	internalCase.ID = ""
	internalCase.Subject = services.SanitizeText(internalCase.Subject)
	internalCase.InitialObservations = services.SanitizeText(internalCase.InitialObservations)

	if err := db.DB.Create(&internalCase).Error; err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, internalCase)
}

type caseStatusRequest struct {
	StatusID string `json:"status_id"`
	ActorID  string `json:"actor_id"`
	Comment  string `json:"comment"`
}

// ChangeCaseStatusHandler moves an internal case to a new status from
// the status catalog.
func ChangeCaseStatusHandler(c echo.Context) error {
	var req caseStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	var actorID *string
	if req.ActorID != "" {
		actorID = &req.ActorID
	}

	err := services.ChangeCaseStatus(db.DB, c.Param("id"), req.StatusID, actorID, services.SanitizeText(req.Comment))
	if err != nil {
		return jsonError(c, err)
	}

	var internalCase models.InternalCase
	if err := db.DB.Preload("Status").First(&internalCase, "id = ?", c.Param("id")).Error; err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, internalCase)
}

// ListCaseHistoryHandler returns the status history of an internal case.
func ListCaseHistoryHandler(c echo.Context) error {
	var history []models.CaseStatusHistory
	err := db.DB.
		Preload("PreviousStatus").
		Preload("NewStatus").
		Preload("Actor").
		Where("case_id = ?", c.Param("id")).
		Order("created_at DESC").
		Find(&history).Error
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, history)
}
