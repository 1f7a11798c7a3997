package worker

// email_worker.go
// Processes email jobs from QueueEmail: sends the group statement PDF.
// Every attempt goes through the SMTP circuit breaker; a job that still
// fails after maxEmailAttempts is returned as an error and ends in the DLQ.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"afiliados/internal/infra"

	"github.com/rs/zerolog/log"
)

const maxEmailAttempts = 3

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// ResumenSender delivers a statement by email. *infra.Mailer satisfies it.
type ResumenSender interface {
	SendResumen(to, subject, body, pdfPath string) error
}

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	sender  ResumenSender
	breaker *infra.CircuitBreaker
	backoff time.Duration
}

// NewEmailWorker creates an EmailWorker guarded by breaker.
func NewEmailWorker(sender ResumenSender, breaker *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{sender: sender, breaker: breaker, backoff: time.Second}
}

// Process sends one email with the PDF attached.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	err := withRetry(ctx, maxEmailAttempts, w.backoff, func(attempt int) error {
		err := w.breaker.Execute(func() error {
			return w.sender.SendResumen(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
		})
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("to", payload.ToEmail).
				Msg("email_worker: send attempt failed")
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("email_worker: %d attempts failed: %w", maxEmailAttempts, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: resumen sent")
	return nil
}

// withRetry calls fn up to maxAttempts times with exponential backoff
// (immediate, base, 2*base, ...). It stops early on ErrCircuitOpen.
func withRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := base * time.Duration(1<<uint(i-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		err := fn(i)
		if err == nil {
			return nil
		}
		lastErr = err
		if errors.Is(err, infra.ErrCircuitOpen) {
			break
		}
	}
	return lastErr
}
