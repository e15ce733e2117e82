package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// ValidationError is a field-scoped business-rule failure. It is always
// recoverable: callers re-render the form or record it as an import error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-scoped validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ValidateDateNotFuture fails when the date is set and later than today
func ValidateDateNotFuture(value *time.Time, fieldName string) error {
	if value != nil && value.After(endOfToday()) {
		return NewValidationError(fieldName, "La fecha no puede ser futura.")
	}
	return nil
}

func endOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
}

// chronologicalSequence lists the reception dates that must be
// non-decreasing, in workflow order.
func chronologicalSequence(p *Procedure) []struct {
	Name  string
	Value *time.Time
} {
	return []struct {
		Name  string
		Value *time.Time
	}{
		{"fecha_recepcion_nivel", p.ReceivedAtLevel},
		{"fecha_recepcion_subsecretaria", p.ReceivedAtSubOffice},
		{"fecha_recepcion_rh", p.ReceivedAtHR},
	}
}

// ValidateChronologicalDates checks that the main reception dates are not
// in the future and form a non-decreasing sequence. Unset dates are
// skipped; the last seen date carries forward.
func ValidateChronologicalDates(p *Procedure) error {
	var lastDate *time.Time
	lastName := ""
	for _, entry := range chronologicalSequence(p) {
		if err := ValidateDateNotFuture(entry.Value, entry.Name); err != nil {
			return err
		}
		if entry.Value == nil {
			continue
		}
		if lastDate != nil && entry.Value.Before(*lastDate) {
			return NewValidationError(
				entry.Name,
				fmt.Sprintf("La fecha no puede ser anterior a %s.", strings.ReplaceAll(lastName, "_", " ")),
			)
		}
		lastDate = entry.Value
		lastName = entry.Name
	}
	return nil
}

// ValidateFieldsForStage enforces field completeness for the current
// stage: the resolution stages require the resolution letter and a
// result; notification/closure additionally require at least one
// recorded notification once the procedure is persisted.
func ValidateFieldsForStage(tx *gorm.DB, p *Procedure) error {
	if p.CurrentStageID == "" {
		return nil
	}

	stage := p.CurrentStage
	if stage == nil && tx != nil {
		var s Stage
		if err := tx.Session(&gorm.Session{NewDB: true}).First(&s, "id = ?", p.CurrentStageID).Error; err == nil {
			stage = &s
		}
	}
	if stage == nil {
		return nil
	}

	slug := NormalizeStageName(stage.Name)
	if slug == "resolucion" || slug == "notificacion" || slug == "cierre" {
		if strings.TrimSpace(p.ResolutionLetterAndDate) == "" {
			return NewValidationError("oficio_resolucion_num_y_fecha", "Captura el oficio de resolución.")
		}
		if p.ResultID == nil || *p.ResultID == "" {
			return NewValidationError("resultado_resolucion", "Selecciona el resultado de la resolución.")
		}
	}

	if (slug == "notificacion" || slug == "cierre") && p.ID != "" && tx != nil {
		var count int64
		err := tx.Session(&gorm.Session{NewDB: true}).Model(&Notification{}).
			Where("procedure_id = ?", p.ID).Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return NewValidationError(
				"estado_actual",
				"Para avanzar a notificación/cierre registra al menos una notificación.",
			)
		}
	}
	return nil
}

// stageTransitions is the closed-world transition table. Stages whose
// slug is absent have an empty allowed-successor set, so any move away
// from them fails unless listed in the caller's exceptions.
var stageTransitions = map[string][]string{
	"ingreso":      {"integracion"},
	"integracion":  {"vistobueno", "resolucion"},
	"vistobueno":   {"resolucion"},
	"resolucion":   {"notificacion", "cierre"},
	"notificacion": {"cierre"},
	"cierre":       {},
}

// NormalizeStageName reduces a stage label to its slug: lowercase,
// accents stripped, everything but letters and digits removed.
func NormalizeStageName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}

	var b strings.Builder
	for _, r := range strings.ToLower(plain) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateStageTransition verifies the move between stages is allowed.
// A nil previous stage (first save) and staying on the same stage row
// always pass. Exceptions contains stage slugs that bypass the table.
func ValidateStageTransition(previous, next *Stage, exceptions []string) error {
	if next == nil {
		return NewValidationError("estado_actual", "Selecciona una etapa válida.")
	}
	if previous == nil {
		return nil
	}
	if previous.ID == next.ID {
		return nil
	}

	prevSlug := NormalizeStageName(previous.Name)
	nextSlug := NormalizeStageName(next.Name)

	for _, exc := range exceptions {
		if nextSlug == exc {
			return nil
		}
	}

	for _, allowed := range stageTransitions[prevSlug] {
		if nextSlug == allowed {
			return nil
		}
	}
	return NewValidationError(
		"estado_actual",
		fmt.Sprintf("No es válido pasar de %s a %s.", previous.Name, next.Name),
	)
}
