package models

// Stage is a named, ordered phase of the procedure lifecycle.
// A stage marked final has no outgoing transitions.
type Stage struct {
	CatalogBase
	Order   int  `gorm:"not null;default:1;index" json:"order"`
	IsFinal bool `gorm:"not null;default:false" json:"is_final"`
}

func (Stage) TableName() string { return "stages" }
