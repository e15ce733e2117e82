package services

import (
	"fmt"
	"strings"

	"licencias_flow_go/models"

	"gorm.io/gorm"
)

// ChangeStage performs the explicit stage-change operation: it
// re-validates the transition against the currently persisted stage,
// moves the procedure and appends a Movement, all in one transaction.
// Moving to the stage the procedure is already in is a no-op and
// returns a nil movement.
func ChangeStage(dbConn *gorm.DB, procedureID, newStageID string, actorID *string, comment string) (*models.Movement, error) {
	var movement *models.Movement

	err := dbConn.Transaction(func(tx *gorm.DB) error {
		var procedure models.Procedure
		if err := tx.Preload("CurrentStage").First(&procedure, "id = ?", procedureID).Error; err != nil {
			return fmt.Errorf("failed to load procedure: %w", err)
		}

		var newStage models.Stage
		if err := tx.First(&newStage, "id = ?", newStageID).Error; err != nil {
			return models.NewValidationError("estado_actual", "Selecciona una etapa válida.")
		}

		if procedure.CurrentStageID == newStage.ID {
			return nil
		}

		if err := models.ValidateStageTransition(procedure.CurrentStage, &newStage, nil); err != nil {
			return err
		}

		previousID := procedure.CurrentStageID
		procedure.CurrentStageID = newStage.ID
		procedure.CurrentStage = &newStage
		if err := tx.Save(&procedure).Error; err != nil {
			return err
		}

		movement = &models.Movement{
			ProcedureID:     procedure.ID,
			PreviousStageID: &previousID,
			NewStageID:      newStage.ID,
			Comment:         comment,
			ActorID:         actorID,
		}
		return tx.Create(movement).Error
	})

	if err != nil {
		return nil, err
	}
	return movement, nil
}

// RecordControlStatusChange appends a status-history row for an
// internal-control record. Unchanged statuses are suppressed.
func RecordControlStatusChange(db *gorm.DB, control *models.InternalControl, actorID *string, previousStatus, newStatus string) error {
	previous := strings.TrimSpace(previousStatus)
	next := strings.TrimSpace(newStatus)
	if previous == next {
		return nil
	}
	return db.Create(&models.InternalControlStatusHistory{
		ControlID:      control.ID,
		PreviousStatus: previous,
		NewStatus:      next,
		ActorID:        actorID,
	}).Error
}

// ChangeCaseStatus moves an internal case to a new catalog status and
// logs the change; a same-status move writes nothing.
func ChangeCaseStatus(dbConn *gorm.DB, caseID, newStatusID string, actorID *string, comment string) error {
	return dbConn.Transaction(func(tx *gorm.DB) error {
		var internalCase models.InternalCase
		if err := tx.First(&internalCase, "id = ?", caseID).Error; err != nil {
			return fmt.Errorf("failed to load internal case: %w", err)
		}

		var newStatus models.CaseStatus
		if err := tx.First(&newStatus, "id = ?", newStatusID).Error; err != nil {
			return models.NewValidationError("estatus", "Selecciona un estatus válido.")
		}

		if internalCase.StatusID == newStatus.ID {
			return nil
		}

		previousID := internalCase.StatusID
		internalCase.StatusID = newStatus.ID
		if err := tx.Save(&internalCase).Error; err != nil {
			return err
		}

		return tx.Create(&models.CaseStatusHistory{
			CaseID:           internalCase.ID,
			PreviousStatusID: &previousID,
			NewStatusID:      newStatus.ID,
			ActorID:          actorID,
			Comment:          comment,
		}).Error
	})
}
