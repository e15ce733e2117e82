package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Request kind constants (initial request vs. extension)
const (
	RequestKindInitial   = "inicial"
	RequestKindExtension = "prorroga"
	RequestKindUnknown   = "otro"
)

// DefaultFolioPrefix is the folio prefix used when no override is configured.
const DefaultFolioPrefix = "SEC-LIC"

// FolioPrefix is the active folio prefix. Overridden at startup from config.
var FolioPrefix = DefaultFolioPrefix

// ExtensionBlock groups the fields captured for one license extension
// (prórroga). Embedded twice in Procedure with distinct column prefixes.
type ExtensionBlock struct {
	OriginLetterNumber       string     `gorm:"size:100" json:"origin_letter_number"`
	ReceivedAt               *time.Time `json:"received_at,omitempty"`
	Incident                 string     `gorm:"type:text" json:"incident"`
	DAFLetterNumber          string     `gorm:"size:100" json:"daf_letter_number"`
	DAFReceivedAt            *time.Time `json:"daf_received_at,omitempty"`
	AppointmentDate          *time.Time `json:"appointment_date,omitempty"`
	ContactDate              *time.Time `json:"contact_date,omitempty"`
	RulingLetterNumber       string     `gorm:"size:100" json:"ruling_letter_number"`
	RulingDate               *time.Time `json:"ruling_date,omitempty"`
	Authorized               bool       `gorm:"not null;default:false" json:"authorized"`
	AuthorizedPeriod         string     `gorm:"size:100" json:"authorized_period"`
	NotificationLetterNumber string     `gorm:"size:100" json:"notification_letter_number"`
	NotificationDate         *time.Time `json:"notification_date,omitempty"`
}

// Procedure is the central workflow entity: one license request tracked
// through stages for one worker.
type Procedure struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Identification
	Folio string `gorm:"size:25;uniqueIndex" json:"folio"`

	// Workflow position
	CurrentStageID string `gorm:"type:uuid;not null;index;constraint:OnDelete:RESTRICT" json:"current_stage_id"`
	CurrentStage   *Stage `gorm:"foreignKey:CurrentStageID" json:"current_stage,omitempty"`

	ResponsibleUserID *string `gorm:"type:uuid;index" json:"responsible_user_id,omitempty"`
	ResponsibleUser   *User   `gorm:"foreignKey:ResponsibleUserID" json:"responsible_user,omitempty"`

	Observations string `gorm:"type:text" json:"observations"`

	// Section 1: education level intake
	ProcedureTypeID string         `gorm:"type:uuid;not null;index" json:"procedure_type_id"`
	ProcedureType   *ProcedureType `gorm:"foreignKey:ProcedureTypeID" json:"procedure_type,omitempty"`

	SubsystemID string     `gorm:"type:uuid;not null;index" json:"subsystem_id"`
	Subsystem   *Subsystem `gorm:"foreignKey:SubsystemID" json:"subsystem,omitempty"`

	RequestKind string `gorm:"size:30;not null;default:otro" json:"request_kind"`

	WorkerName string `gorm:"size:255;not null;index" json:"worker_name"`

	DiagnosisID *string    `gorm:"type:uuid" json:"diagnosis_id,omitempty"`
	Diagnosis   *Diagnosis `gorm:"foreignKey:DiagnosisID" json:"diagnosis,omitempty"`

	UnionID *string `gorm:"type:uuid" json:"union_id,omitempty"`
	Union   *Union  `gorm:"foreignKey:UnionID" json:"union,omitempty"`

	Contact              string     `gorm:"type:text" json:"contact"`
	OriginLetterNumber   string     `gorm:"size:100" json:"origin_letter_number"`
	ReceivedAtLevel      *time.Time `json:"received_at_level,omitempty"`
	IntegrationIncidents string     `gorm:"type:text" json:"integration_incidents"`

	SubOfficeLetterNumber string     `gorm:"size:100" json:"sub_office_letter_number"`
	ReceivedAtSubOffice   *time.Time `json:"received_at_sub_office,omitempty"`

	// Section 2: sub-office review
	ApprovalIncidents     string     `gorm:"type:text" json:"approval_incidents"`
	ApprovalLetterAndDate string     `gorm:"size:150" json:"approval_letter_and_date"`
	ReceivedAtDAF         *time.Time `json:"received_at_daf,omitempty"`

	// Section 3: state procedures (worker appointment)
	AppointmentDate             *time.Time `json:"appointment_date,omitempty"`
	AppointmentContactDate      *time.Time `json:"appointment_contact_date,omitempty"`
	AppointmentContactIncidents string     `gorm:"type:text" json:"appointment_contact_incidents"`

	// Section 4: ruling
	RulingLetterNumber       string     `gorm:"size:100" json:"ruling_letter_number"`
	RulingDate               *time.Time `json:"ruling_date,omitempty"`
	Authorized               bool       `gorm:"not null;default:false" json:"authorized"`
	AuthorizedPeriod         string     `gorm:"size:100" json:"authorized_period"`
	NotificationLetterNumber string     `gorm:"size:100" json:"notification_letter_number"`
	NotificationDate         *time.Time `json:"notification_date,omitempty"`

	// Section 5: extensions
	Extension1 ExtensionBlock `gorm:"embedded;embeddedPrefix:extension1_" json:"extension1"`
	Extension2 ExtensionBlock `gorm:"embedded;embeddedPrefix:extension2_" json:"extension2"`

	// Resolution (HR office)
	HRLetterNumber          string     `gorm:"size:100" json:"hr_letter_number"`
	ReceivedAtHR            *time.Time `json:"received_at_hr,omitempty"`
	ResolutionLetterAndDate string     `gorm:"size:150" json:"resolution_letter_and_date"`

	ResultID *string `gorm:"type:uuid" json:"result_id,omitempty"`
	Result   *Result `gorm:"foreignKey:ResultID" json:"result,omitempty"`

	HandledBy string `gorm:"size:255" json:"handled_by"`

	// Relationships
	Notifications []Notification   `gorm:"foreignKey:ProcedureID" json:"notifications,omitempty"`
	Letters       []OfficialLetter `gorm:"foreignKey:ProcedureID" json:"letters,omitempty"`
	Movements     []Movement       `gorm:"foreignKey:ProcedureID" json:"movements,omitempty"`
}

// TableName specifies the table name for Procedure model
func (Procedure) TableName() string {
	return "procedures"
}

// BeforeCreate hook to generate UUID
func (p *Procedure) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave runs the full business validation and assigns the folio on
// first save. Any validation failure aborts the save.
func (p *Procedure) BeforeSave(tx *gorm.DB) error {
	if err := p.FullValidate(tx); err != nil {
		return err
	}
	if p.Folio == "" {
		folio, err := GenerateFolio(tx, p)
		if err != nil {
			return err
		}
		p.Folio = folio
	}
	return nil
}

// FullValidate applies chronological, per-stage and transition rules.
// The previous stage is re-read from the persisted row, so direct field
// edits that leave the stage untouched always pass the transition check.
func (p *Procedure) FullValidate(tx *gorm.DB) error {
	if err := ValidateChronologicalDates(p); err != nil {
		return err
	}
	if err := ValidateFieldsForStage(tx, p); err != nil {
		return err
	}

	session := tx.Session(&gorm.Session{NewDB: true})

	var previous *Stage
	if p.ID != "" {
		var prevID string
		err := session.Model(&Procedure{}).Select("current_stage_id").
			Where("id = ?", p.ID).Limit(1).Scan(&prevID).Error
		if err != nil {
			return err
		}
		if prevID != "" {
			var stage Stage
			if err := session.First(&stage, "id = ?", prevID).Error; err == nil {
				previous = &stage
			}
		}
	}

	current := p.CurrentStage
	if current == nil && p.CurrentStageID != "" {
		var stage Stage
		if err := session.First(&stage, "id = ?", p.CurrentStageID).Error; err == nil {
			current = &stage
			p.CurrentStage = &stage
		}
	}
	return ValidateStageTransition(previous, current, nil)
}

// ReferenceDate picks the date the folio year is derived from.
func (p *Procedure) ReferenceDate() time.Time {
	if p.ReceivedAtLevel != nil {
		return *p.ReceivedAtLevel
	}
	if p.ReceivedAtSubOffice != nil {
		return *p.ReceivedAtSubOffice
	}
	return time.Now()
}
