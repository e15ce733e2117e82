package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultControlStatus is the status an internal-control record starts in.
const DefaultControlStatus = "NO ATENDIDO"

// InternalControl tracks a memorandum handled by the legal area for a
// worksite.
type InternalControl struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Memorandum     string     `gorm:"size:150;not null;index" json:"memorandum"`
	MemorandumDate *time.Time `json:"memorandum_date,omitempty"`
	Year           uint       `gorm:"not null;index" json:"year"`
	InternalNumber string     `gorm:"size:100;not null" json:"internal_number"`
	Subject        string     `gorm:"size:255;not null" json:"subject"`

	WorksiteCode string    `gorm:"size:12;not null;index;constraint:OnDelete:RESTRICT" json:"worksite_code"`
	Worksite     *Worksite `gorm:"foreignKey:WorksiteCode" json:"worksite,omitempty"`

	// Snapshots refreshed from the worksite on save
	WorksiteName      string `gorm:"size:255" json:"worksite_name"`
	ServiceModality   string `gorm:"size:255" json:"service_modality"`
	SustainmentSystem string `gorm:"size:255" json:"sustainment_system"`

	ResponseDate         *time.Time `json:"response_date,omitempty"`
	ResponseLetterNumber string     `gorm:"size:150" json:"response_letter_number"`
	Advisor              string     `gorm:"size:255" json:"advisor"`
	Observations         string     `gorm:"type:text" json:"observations"`
	Status               string     `gorm:"size:150;not null;default:NO ATENDIDO;index" json:"status"`
	Comments             string     `gorm:"type:text" json:"comments"`
}

// TableName specifies the table name for InternalControl model
func (InternalControl) TableName() string {
	return "internal_controls"
}

// BeforeCreate hook to generate UUID
func (c *InternalControl) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave refreshes worksite snapshots, normalizes the sustainment
// system and derives/validates the year.
func (c *InternalControl) BeforeSave(tx *gorm.DB) error {
	if c.WorksiteCode != "" {
		var worksite Worksite
		err := tx.Session(&gorm.Session{NewDB: true}).First(&worksite, "code = ?", c.WorksiteCode).Error
		if err == nil {
			c.WorksiteName = worksite.Name
			if c.Advisor == "" {
				c.Advisor = worksite.Advisor
			}
			c.ServiceModality = worksite.ServiceModality
			c.SustainmentSystem = worksite.SustainmentSystem
		}
	}
	c.SustainmentSystem = NormalizeSustainment(c.SustainmentSystem)
	if c.Year == 0 && c.MemorandumDate != nil {
		c.Year = uint(c.MemorandumDate.Year())
	}
	if c.Year != 0 {
		limit := uint(time.Now().Year() + 2)
		if c.Year < 2000 || c.Year > limit {
			return NewValidationError("anio", fmt.Sprintf("El año debe estar entre 2000 y %d.", limit))
		}
	}
	return nil
}

// InternalControlStatusHistory is the append-only log of status changes
// on internal-control records.
type InternalControlStatusHistory struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ControlID string           `gorm:"type:uuid;not null;index" json:"control_id"`
	Control   *InternalControl `gorm:"foreignKey:ControlID;constraint:OnDelete:CASCADE" json:"control,omitempty"`

	PreviousStatus string `gorm:"size:150" json:"previous_status"`
	NewStatus      string `gorm:"size:150;not null" json:"new_status"`

	ActorID *string `gorm:"type:uuid" json:"actor_id,omitempty"`
	Actor   *User   `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

// TableName specifies the table name for InternalControlStatusHistory model
func (InternalControlStatusHistory) TableName() string {
	return "internal_control_status_histories"
}

// BeforeCreate hook to generate UUID
func (h *InternalControlStatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}
