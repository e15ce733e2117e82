package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"licencias_flow_go/config"
	"licencias_flow_go/models"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In test mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}
	if email.TextBody == "" {
		return fmt.Errorf("email must have a body")
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Text:    email.TextBody,
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode - not actually sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n%s\n%s", email.TextBody, separator)
}

// SendEmailAsync sends an email in a goroutine so handlers do not block
// on the Resend API.
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		TextBody: email.TextBody,
	}
	go func() {
		if err := SendEmail(cfg, emailCopy); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}()
}

// BuildStageChangeEmail notifies a responsible user that one of their
// procedures moved to a new stage.
func BuildStageChangeEmail(toEmail string, procedure *models.Procedure, movement *models.Movement) *Email {
	stageName := ""
	if procedure.CurrentStage != nil {
		stageName = procedure.CurrentStage.Name
	}

	var body strings.Builder
	fmt.Fprintf(&body, "El trámite %s cambió de etapa.\n\n", procedure.Folio)
	fmt.Fprintf(&body, "Trabajador: %s\n", procedure.WorkerName)
	fmt.Fprintf(&body, "Etapa actual: %s\n", stageName)
	fmt.Fprintf(&body, "Fecha del movimiento: %s\n", movement.OccurredAt.Format("02/01/2006 15:04"))
	if movement.Comment != "" {
		fmt.Fprintf(&body, "Comentario: %s\n", movement.Comment)
	}

	return &Email{
		To:       []string{toEmail},
		Subject:  fmt.Sprintf("Trámite %s: nueva etapa %s", procedure.Folio, stageName),
		TextBody: body.String(),
	}
}

// BuildImportSummaryEmail reports the outcome of a bulk case import.
func BuildImportSummaryEmail(toEmail string, result *ProcedureImportResult, startedAt time.Time) *Email {
	var body strings.Builder
	fmt.Fprintf(&body, "Importación de trámites del %s.\n\n", startedAt.Format("02/01/2006 15:04"))
	fmt.Fprintf(&body, "Filas cargadas: %d\n", len(result.Loaded))
	fmt.Fprintf(&body, "Filas con error: %d\n", len(result.Failed))
	for _, outcome := range result.Failed {
		fmt.Fprintf(&body, "  Fila %d: %s\n", outcome.Index, strings.Join(outcome.Errors, "; "))
	}

	return &Email{
		To:       []string{toEmail},
		Subject:  fmt.Sprintf("Resultado de importación: %d cargadas, %d con error", len(result.Loaded), len(result.Failed)),
		TextBody: body.String(),
	}
}
