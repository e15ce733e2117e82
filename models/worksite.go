package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NormalizeSustainment maps historical sustainment-system labels onto
// canonical values. "FEDERAL TRANSFERIDO" collapses to "FEDERAL"; other
// values are trimmed and returned unchanged. Nil-safe via the empty string.
func NormalizeSustainment(value string) string {
	normalized := strings.TrimSpace(value)
	if strings.EqualFold(normalized, "FEDERAL TRANSFERIDO") {
		return "FEDERAL"
	}
	return normalized
}

// Worksite is a physical work location (CCT), keyed by its short code.
// Upserted by code during reconciliation imports.
type Worksite struct {
	Code              string    `gorm:"size:12;primarykey" json:"code"`
	Name              string    `gorm:"size:255;not null" json:"name"`
	Advisor           string    `gorm:"size:255" json:"advisor"`
	ServiceModality   string    `gorm:"size:255" json:"service_modality"`
	SustainmentSystem string    `gorm:"size:255" json:"sustainment_system"`
	Municipality      string    `gorm:"size:255" json:"municipality"`
	Shift             string    `gorm:"size:255" json:"shift"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for Worksite model
func (Worksite) TableName() string {
	return "worksites"
}

// BeforeSave keeps the sustainment system canonical.
func (w *Worksite) BeforeSave(tx *gorm.DB) error {
	w.SustainmentSystem = NormalizeSustainment(w.SustainmentSystem)
	return nil
}

// Sex constants for protocol records
const (
	SexMale        = "H"
	SexFemale      = "M"
	SexUnspecified = "X"
)

// Protocol status constants
const (
	ProtocolStatusActive    = "activo"
	ProtocolStatusFollowUp  = "seguimiento"
	ProtocolStatusClosed    = "cerrado"
	ProtocolStatusCancelled = "cancelado"
)

// ProtocolRecord is one entry of the violence-protocol registry kept for
// secondary-level worksites. Upserted by its external registry number.
type ProtocolRecord struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RegistryNumber uint `gorm:"not null;uniqueIndex" json:"registry_number"`

	WorksiteCode string    `gorm:"size:12;not null;index;constraint:OnDelete:RESTRICT" json:"worksite_code"`
	Worksite     *Worksite `gorm:"foreignKey:WorksiteCode" json:"worksite,omitempty"`

	StartDate  time.Time `gorm:"not null;index" json:"start_date"`
	Initials   string    `gorm:"size:50" json:"initials"`
	ChildName  string    `gorm:"size:255;not null" json:"child_name"`
	Sex        string    `gorm:"size:1;not null;default:X" json:"sex"`
	SchoolName string    `gorm:"size:255" json:"school_name"`

	ViolenceTypeID *string       `gorm:"type:uuid" json:"violence_type_id,omitempty"`
	ViolenceType   *ViolenceType `gorm:"foreignKey:ViolenceTypeID" json:"violence_type,omitempty"`

	Description  string `gorm:"type:text" json:"description"`
	LegalAdvisor string `gorm:"size:255" json:"legal_advisor"`
	Status       string `gorm:"size:20;not null;default:activo;index" json:"status"`
	Comments     string `gorm:"type:text" json:"comments"`
	Year         uint   `gorm:"not null;index" json:"year"`
}

// TableName specifies the table name for ProtocolRecord model
func (ProtocolRecord) TableName() string {
	return "protocol_records"
}

// BeforeCreate assigns the UUID and, when absent, the next registry number.
func (r *ProtocolRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.RegistryNumber == 0 {
		next, err := NextRegistryNumber(tx)
		if err != nil {
			return err
		}
		r.RegistryNumber = next
	}
	return nil
}

// BeforeSave snapshots worksite data and derives/validates the year.
func (r *ProtocolRecord) BeforeSave(tx *gorm.DB) error {
	if r.WorksiteCode != "" {
		var worksite Worksite
		err := tx.Session(&gorm.Session{NewDB: true}).First(&worksite, "code = ?", r.WorksiteCode).Error
		if err == nil {
			r.SchoolName = worksite.Name
			if r.LegalAdvisor == "" {
				r.LegalAdvisor = worksite.Advisor
			}
		}
	}
	if r.Year == 0 && !r.StartDate.IsZero() {
		r.Year = uint(r.StartDate.Year())
	}
	if r.Year != 0 {
		limit := uint(time.Now().Year() + 1)
		if r.Year < 2000 || r.Year > limit {
			return NewValidationError("anio", fmt.Sprintf("El año debe estar entre 2000 y %d.", limit))
		}
	}
	return nil
}
