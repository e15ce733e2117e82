package handlers

import (
	"net/http"
	"strings"

	"licencias_flow_go/db"
	"licencias_flow_go/models"

	"github.com/labstack/echo/v4"
)

// ListWorksitesHandler returns worksites, optionally filtered by
// municipality or a name/code search.
func ListWorksitesHandler(c echo.Context) error {
	query := db.DB.Model(&models.Worksite{})

	if municipality := strings.TrimSpace(c.QueryParam("municipality")); municipality != "" {
		query = query.Where("LOWER(municipality) = LOWER(?)", municipality)
	}
	if search := strings.TrimSpace(c.QueryParam("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}

	var worksites []models.Worksite
	if err := query.Order("code ASC").Find(&worksites).Error; err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, worksites)
}

// GetWorksiteHandler returns one worksite by CCT code.
func GetWorksiteHandler(c echo.Context) error {
	var worksite models.Worksite
	err := db.DB.First(&worksite, "code = ?", strings.ToUpper(c.Param("code"))).Error
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, worksite)
}

// ListProtocolRecordsHandler returns registry records filtered by year,
// status or worksite.
func ListProtocolRecordsHandler(c echo.Context) error {
	query := db.DB.Model(&models.ProtocolRecord{}).
		Preload("Worksite").
		Preload("ViolenceType")

	if year := c.QueryParam("year"); year != "" {
		query = query.Where("year = ?", year)
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		query = query.Where("status = ?", status)
	}
	if code := strings.TrimSpace(c.QueryParam("worksite_code")); code != "" {
		query = query.Where("worksite_code = ?", strings.ToUpper(code))
	}

	var records []models.ProtocolRecord
	if err := query.Order("registry_number ASC").Find(&records).Error; err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

// CreateProtocolRecordHandler registers one record manually. The
// registry number is assigned automatically when omitted.
func CreateProtocolRecordHandler(c echo.Context) error {
	var record models.ProtocolRecord
	if err := c.Bind(&record); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	record.ID = ""
	record.WorksiteCode = strings.ToUpper(strings.TrimSpace(record.WorksiteCode))

	if err := db.DB.Create(&record).Error; err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, record)
}
