package worker

// resumen_worker.go
// Processes group statement jobs from QueueResumen:
//  1. Compute the group premium for the requested period
//  2. Render the statement PDF
//  3. Optionally enqueue an email job with the PDF attached

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"afiliados/internal/calculo"
	"afiliados/internal/dto"
	"afiliados/internal/infra"

	"github.com/rs/zerolog/log"
)

// ResumenJobPayload is the job envelope sent to QueueResumen.
type ResumenJobPayload struct {
	Member        int64   `json:"member"`
	Period        string  `json:"period"`
	Email         *string `json:"email,omitempty"`
	SolicitadoPor string  `json:"solicitado_por"`
}

// Calculador computes a persisted group's premium. The group service satisfies it.
type Calculador interface {
	CalcularGrupo(ctx context.Context, numero int64, periodo string) (*dto.CalculoGrupoResponse, error)
}

// EmailEnqueuer is the part of Dispatcher the statement worker needs.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) (string, error)
}

// ResumenWorker renders group statements.
type ResumenWorker struct {
	calc         Calculador
	emails       EmailEnqueuer
	storagePath  string
	organizacion string
	now          func() time.Time
}

func NewResumenWorker(calc Calculador, emails EmailEnqueuer, storagePath, organizacion string) *ResumenWorker {
	return &ResumenWorker{
		calc:         calc,
		emails:       emails,
		storagePath:  storagePath,
		organizacion: organizacion,
		now:          time.Now,
	}
}

// Process handles a single statement job. Calculation and PDF errors are
// returned so the job lands in the DLQ; a failed email enqueue is only logged.
func (w *ResumenWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ResumenJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("resumen_worker: invalid payload: %w", err)
	}

	res, err := w.calc.CalcularGrupo(ctx, payload.Member, payload.Period)
	if err != nil {
		return fmt.Errorf("resumen_worker: calcular grupo %d: %w", payload.Member, err)
	}

	base := calculo.GrupoBase(payload.Member)
	resumen := infra.ResumenCuota{
		Organizacion: w.organizacion,
		Grupo:        base,
		GrupoFmt:     calculo.FormatNumero(base),
		Periodo:      res.Period,
		Plan:         fmt.Sprintf("%d - %s", res.Plan.Code, res.Plan.Name),
		Subtotal:     res.SubtotalBeforeAdjustment,
		Ajuste:       res.PreExistingAdjustmentTotal,
		Total:        res.Total,
		Advertencias: res.Warnings,
		GeneradoEn:   w.now(),
	}
	for _, d := range res.Breakdown {
		linea := infra.ResumenLinea{
			Numero:   calculo.FormatNumero(d.Numero),
			Nombre:   d.Nombre,
			Rol:      string(d.Rol),
			Edad:     d.Edad,
			Base:     d.Base,
			Recargo:  d.Recargo,
			Subtotal: d.Subtotal,
			Ajuste:   d.AjustePrepago,
		}
		if d.MotivoNoComputa != nil {
			linea.NoComputa = *d.MotivoNoComputa
		}
		resumen.Lineas = append(resumen.Lineas, linea)
	}

	pdfPath, err := infra.GenerateResumenPDF(resumen, w.storagePath)
	if err != nil {
		return fmt.Errorf("resumen_worker: %w", err)
	}
	log.Info().
		Str("pdf", pdfPath).
		Int64("grupo", base).
		Str("periodo", res.Period).
		Str("solicitado_por", payload.SolicitadoPor).
		Msg("resumen_worker: PDF generated")

	if payload.Email != nil && *payload.Email != "" {
		emailJob := EmailJobPayload{
			ToEmail: *payload.Email,
			Subject: fmt.Sprintf("%s: resumen de cuota %s, grupo %s", w.organizacion, res.Period, resumen.GrupoFmt),
			Body:    fmt.Sprintf("Adjuntamos el resumen de cuota del período %s.\nTotal: %s", res.Period, res.Total.String()),
			PDFPath: pdfPath,
		}
		if _, err := w.emails.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *payload.Email).Msg("resumen_worker: failed to enqueue email")
		}
	}
	return nil
}
