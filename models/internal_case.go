package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InternalCase is a case opened for a worksite and routed through
// catalog-based statuses (as opposed to the staged Procedure workflow).
type InternalCase struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	WorksiteCode string    `gorm:"size:12;not null;index;constraint:OnDelete:RESTRICT" json:"worksite_code"`
	Worksite     *Worksite `gorm:"foreignKey:WorksiteCode" json:"worksite,omitempty"`

	// Snapshots refreshed from the worksite on save
	WorksiteName      string `gorm:"size:255" json:"worksite_name"`
	SustainmentSystem string `gorm:"size:255" json:"sustainment_system"`
	ServiceModality   string `gorm:"size:255" json:"service_modality"`
	Advisor           string `gorm:"size:255" json:"advisor"`

	BriefDescription string    `gorm:"size:255" json:"brief_description"`
	OpenedAt         time.Time `gorm:"not null;index" json:"opened_at"`

	StatusID string      `gorm:"type:uuid;not null;index;constraint:OnDelete:RESTRICT" json:"status_id"`
	Status   *CaseStatus `gorm:"foreignKey:StatusID" json:"status,omitempty"`

	InitialTypeID string         `gorm:"type:uuid;not null" json:"initial_type_id"`
	InitialType   *ProcedureType `gorm:"foreignKey:InitialTypeID" json:"initial_type,omitempty"`

	ViolenceTypeID *string       `gorm:"type:uuid" json:"violence_type_id,omitempty"`
	ViolenceType   *ViolenceType `gorm:"foreignKey:ViolenceTypeID" json:"violence_type,omitempty"`

	RecordNumber string `gorm:"size:150" json:"record_number"`

	RequesterID *string    `gorm:"type:uuid" json:"requester_id,omitempty"`
	Requester   *Requester `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`

	AddresseeID *string    `gorm:"type:uuid" json:"addressee_id,omitempty"`
	Addressee   *Addressee `gorm:"foreignKey:AddresseeID" json:"addressee,omitempty"`

	OriginAreaID *string `gorm:"type:uuid" json:"origin_area_id,omitempty"`
	OriginArea   *Area   `gorm:"foreignKey:OriginAreaID" json:"origin_area,omitempty"`

	Subject             string     `gorm:"type:text" json:"subject"`
	InitialFolio        string     `gorm:"size:150" json:"initial_folio"`
	InitialLetterDate   *time.Time `json:"initial_letter_date,omitempty"`
	InitialObservations string     `gorm:"type:text" json:"initial_observations"`

	CreatedByID *string `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedBy   *User   `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// TableName specifies the table name for InternalCase model
func (InternalCase) TableName() string {
	return "internal_cases"
}

// BeforeCreate hook to generate UUID
func (c *InternalCase) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave refreshes worksite snapshots with the canonical sustainment.
func (c *InternalCase) BeforeSave(tx *gorm.DB) error {
	if c.WorksiteCode != "" {
		var worksite Worksite
		err := tx.Session(&gorm.Session{NewDB: true}).First(&worksite, "code = ?", c.WorksiteCode).Error
		if err == nil {
			c.WorksiteName = worksite.Name
			c.SustainmentSystem = NormalizeSustainment(worksite.SustainmentSystem)
			c.ServiceModality = worksite.ServiceModality
			if c.Advisor == "" {
				c.Advisor = worksite.Advisor
			}
		}
	}
	c.SustainmentSystem = NormalizeSustainment(c.SustainmentSystem)
	return nil
}

// CaseStatusHistory is the append-only log of status changes on internal
// cases. Written only when the status actually changes.
type CaseStatusHistory struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CaseID string        `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   *InternalCase `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE" json:"case,omitempty"`

	PreviousStatusID *string     `gorm:"type:uuid" json:"previous_status_id,omitempty"`
	PreviousStatus   *CaseStatus `gorm:"foreignKey:PreviousStatusID" json:"previous_status,omitempty"`

	NewStatusID string      `gorm:"type:uuid;not null" json:"new_status_id"`
	NewStatus   *CaseStatus `gorm:"foreignKey:NewStatusID" json:"new_status,omitempty"`

	ActorID *string `gorm:"type:uuid" json:"actor_id,omitempty"`
	Actor   *User   `gorm:"foreignKey:ActorID" json:"actor,omitempty"`

	Comment string `gorm:"type:text" json:"comment"`
}

// TableName specifies the table name for CaseStatusHistory model
func (CaseStatusHistory) TableName() string {
	return "case_status_histories"
}

// BeforeCreate hook to generate UUID
func (h *CaseStatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}
