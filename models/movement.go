package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Movement is one audited stage change of a procedure. Append-only.
type Movement struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ProcedureID string     `gorm:"type:uuid;not null;index" json:"procedure_id"`
	Procedure   *Procedure `gorm:"foreignKey:ProcedureID" json:"procedure,omitempty"`

	PreviousStageID *string `gorm:"type:uuid" json:"previous_stage_id,omitempty"`
	PreviousStage   *Stage  `gorm:"foreignKey:PreviousStageID" json:"previous_stage,omitempty"`

	NewStageID string `gorm:"type:uuid;not null;index" json:"new_stage_id"`
	NewStage   *Stage `gorm:"foreignKey:NewStageID" json:"new_stage,omitempty"`

	Comment string `gorm:"type:text" json:"comment"`

	ActorID *string `gorm:"type:uuid" json:"actor_id,omitempty"`
	Actor   *User   `gorm:"foreignKey:ActorID" json:"actor,omitempty"`

	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`
}

// TableName specifies the table name for Movement model
func (Movement) TableName() string {
	return "movements"
}

// BeforeCreate generates the UUID and rejects same-stage movements.
func (m *Movement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.OccurredAt.IsZero() {
		m.OccurredAt = time.Now()
	}
	if m.PreviousStageID != nil && *m.PreviousStageID == m.NewStageID {
		return NewValidationError("etapa_nueva", "La etapa nueva debe ser distinta a la anterior.")
	}
	return nil
}
