package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Official letter kind constants
const (
	LetterKindOrigin             = "origen"
	LetterKindSentToSubOffice    = "envio_subsecretaria"
	LetterKindSentToHR           = "envio_rh"
	LetterKindApproval           = "vobo"
	LetterKindResolution         = "resolucion"
	LetterKindUnionNotification  = "notif_sindicato"
	LetterKindWorkerNotification = "notif_trabajador"
	LetterKindOther              = "otro"
)

// OfficialLetter is one oficio attached to a procedure.
type OfficialLetter struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ProcedureID string     `gorm:"type:uuid;not null;index" json:"procedure_id"`
	Procedure   *Procedure `gorm:"foreignKey:ProcedureID" json:"procedure,omitempty"`

	Kind   string     `gorm:"size:25;not null;default:otro" json:"kind"`
	Number string     `gorm:"size:150" json:"number"`
	Date   *time.Time `json:"date,omitempty"`

	IssuingAreaID *string `gorm:"type:uuid" json:"issuing_area_id,omitempty"`
	IssuingArea   *Area   `gorm:"foreignKey:IssuingAreaID" json:"issuing_area,omitempty"`

	Observations string `gorm:"type:text" json:"observations"`
}

// TableName specifies the table name for OfficialLetter model
func (OfficialLetter) TableName() string {
	return "official_letters"
}

// BeforeCreate hook to generate UUID
func (l *OfficialLetter) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave rejects letter dates in the future.
func (l *OfficialLetter) BeforeSave(tx *gorm.DB) error {
	return ValidateDateNotFuture(l.Date, "fecha")
}
