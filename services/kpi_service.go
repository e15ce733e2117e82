package services

import (
	"time"

	"licencias_flow_go/models"

	"gorm.io/gorm"
)

// SeriesPoint is one labeled bucket of a KPI series.
type SeriesPoint struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// MonthlyPoint is one month of the intake series.
type MonthlyPoint struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

// KPISummary aggregates the operational dashboard figures.
type KPISummary struct {
	Total          int64          `json:"total"`
	Open           int64          `json:"open"`
	Closed         int64          `json:"closed"`
	ByMonth        []MonthlyPoint `json:"by_month"`
	ByType         []SeriesPoint  `json:"by_type"`
	BySubsystem    []SeriesPoint  `json:"by_subsystem"`
	ByStage        []SeriesPoint  `json:"by_stage"`
	TopUnions      []SeriesPoint  `json:"top_unions"`
	AverageAgeDays float64        `json:"average_age_days"`
}

func countSeries(db *gorm.DB, join, label string, limit int) ([]SeriesPoint, error) {
	var points []SeriesPoint
	query := db.Model(&models.Procedure{}).
		Joins(join).
		Select(label + " AS label, COUNT(procedures.id) AS value").
		Group(label).
		Order("value DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Scan(&points).Error
	return points, err
}

// BuildKPISummary computes the dashboard summary. A procedure counts as
// open while its stage name does not contain "cierre".
func BuildKPISummary(db *gorm.DB) (*KPISummary, error) {
	summary := &KPISummary{}
	now := time.Now()

	if err := db.Model(&models.Procedure{}).Count(&summary.Total).Error; err != nil {
		return nil, err
	}

	openQuery := db.Model(&models.Procedure{}).
		Joins("JOIN stages ON stages.id = procedures.current_stage_id").
		Where("LOWER(stages.name) NOT LIKE ?", "%cierre%")
	if err := openQuery.Count(&summary.Open).Error; err != nil {
		return nil, err
	}
	summary.Closed = summary.Total - summary.Open

	since := now.AddDate(0, -12, 0)
	err := db.Model(&models.Procedure{}).
		Where("created_at >= ?", since).
		Select("CAST(strftime('%Y', created_at) AS INTEGER) AS year, CAST(strftime('%m', created_at) AS INTEGER) AS month, COUNT(id) AS count").
		Group("year, month").
		Order("year ASC, month ASC").
		Scan(&summary.ByMonth).Error
	if err != nil {
		return nil, err
	}

	if summary.ByType, err = countSeries(db, "JOIN procedure_types ON procedure_types.id = procedures.procedure_type_id", "procedure_types.name", 0); err != nil {
		return nil, err
	}
	if summary.BySubsystem, err = countSeries(db, "JOIN subsystems ON subsystems.id = procedures.subsystem_id", "subsystems.name", 0); err != nil {
		return nil, err
	}
	if summary.ByStage, err = countSeries(db, "JOIN stages ON stages.id = procedures.current_stage_id", "stages.name", 0); err != nil {
		return nil, err
	}
	if summary.TopUnions, err = countSeries(db, "JOIN unions ON unions.id = procedures.union_id", "unions.name", 5); err != nil {
		return nil, err
	}

	if summary.Open > 0 {
		var createdAts []time.Time
		err := db.Model(&models.Procedure{}).
			Joins("JOIN stages ON stages.id = procedures.current_stage_id").
			Where("LOWER(stages.name) NOT LIKE ?", "%cierre%").
			Pluck("procedures.created_at", &createdAts).Error
		if err != nil {
			return nil, err
		}
		var totalDays float64
		for _, createdAt := range createdAts {
			totalDays += now.Sub(createdAt).Hours() / 24
		}
		summary.AverageAgeDays = totalDays / float64(len(createdAts))
	}

	return summary, nil
}
