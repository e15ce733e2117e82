package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification recipient constants
const (
	RecipientUnion  = "sindicato"
	RecipientWorker = "trabajador"
	RecipientOther  = "otro"
)

// Notification records a resolution notice sent to the union or worker.
type Notification struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ProcedureID string     `gorm:"type:uuid;not null;index" json:"procedure_id"`
	Procedure   *Procedure `gorm:"foreignKey:ProcedureID" json:"procedure,omitempty"`

	Recipient    string     `gorm:"size:20;not null;default:sindicato" json:"recipient"`
	LetterNumber string     `gorm:"size:150" json:"letter_number"`
	Date         *time.Time `json:"date,omitempty"`
	Observations string     `gorm:"type:text" json:"observations"`
}

// TableName specifies the table name for Notification model
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate hook to generate UUID
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave rejects notification dates in the future.
func (n *Notification) BeforeSave(tx *gorm.DB) error {
	return ValidateDateNotFuture(n.Date, "fecha")
}
