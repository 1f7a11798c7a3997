package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"afiliados/internal/calculo"
	"afiliados/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calculadorStub struct {
	resp    *dto.CalculoGrupoResponse
	err     error
	numero  int64
	periodo string
}

func (c *calculadorStub) CalcularGrupo(_ context.Context, numero int64, periodo string) (*dto.CalculoGrupoResponse, error) {
	c.numero, c.periodo = numero, periodo
	return c.resp, c.err
}

type enqueuerStub struct {
	jobs []EmailJobPayload
	err  error
}

func (e *enqueuerStub) EnqueueEmail(_ context.Context, p EmailJobPayload) (string, error) {
	e.jobs = append(e.jobs, p)
	return "job-1", e.err
}

func respuestaGrupo() *dto.CalculoGrupoResponse {
	motivo := "No computa (cat 1 < desdeAdh 2)"
	return &dto.CalculoGrupoResponse{
		Total:                      decimal.NewFromInt(14500),
		Period:                     "11/2025",
		Member:                     13801,
		Plan:                       dto.PlanRef{Code: 27, Name: "Plan Familiar"},
		SubtotalBeforeAdjustment:   decimal.NewFromInt(15000),
		PreExistingAdjustmentTotal: decimal.NewFromInt(-500),
		Breakdown: []calculo.DetallePersona{
			{Numero: 13800, Nombre: "PÉREZ, JUAN", Rol: calculo.RolTitular, Edad: 40,
				Base: decimal.NewFromInt(10000), Subtotal: decimal.NewFromInt(10000)},
			{Numero: 13801, Nombre: "PÉREZ, ANA", Rol: calculo.RolAdherente, Categoria: 1, Edad: 70,
				MotivoNoComputa: &motivo},
		},
		Warnings: []string{},
	}
}

func payloadResumen(t *testing.T, p ResumenJobPayload) json.RawMessage {
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return raw
}

func TestResumenWorker_GeneraPDFYEncolaEmail(t *testing.T) {
	dir := t.TempDir()
	calc := &calculadorStub{resp: respuestaGrupo()}
	emails := &enqueuerStub{}
	w := NewResumenWorker(calc, emails, dir, "Mutual Aquino")
	w.now = func() time.Time { return time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC) }

	email := "titular@example.com"
	err := w.Process(context.Background(), payloadResumen(t, ResumenJobPayload{
		Member: 13801, Period: "11/2025", Email: &email, SolicitadoPor: "admin",
	}))
	require.NoError(t, err)

	assert.Equal(t, int64(13801), calc.numero)
	assert.Equal(t, "11/2025", calc.periodo)

	pdf := filepath.Join(dir, "resumen_13800_112025.pdf")
	info, err := os.Stat(pdf)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	require.Len(t, emails.jobs, 1)
	assert.Equal(t, email, emails.jobs[0].ToEmail)
	assert.Equal(t, pdf, emails.jobs[0].PDFPath)
	assert.Contains(t, emails.jobs[0].Body, "14500")
}

func TestResumenWorker_SinEmailNoEncola(t *testing.T) {
	emails := &enqueuerStub{}
	w := NewResumenWorker(&calculadorStub{resp: respuestaGrupo()}, emails, t.TempDir(), "Mutual")

	require.NoError(t, w.Process(context.Background(), payloadResumen(t, ResumenJobPayload{Member: 13800})))
	assert.Empty(t, emails.jobs)
}

func TestResumenWorker_FallaCalculo(t *testing.T) {
	calc := &calculadorStub{err: errors.New("grupo no encontrado")}
	w := NewResumenWorker(calc, &enqueuerStub{}, t.TempDir(), "Mutual")

	err := w.Process(context.Background(), payloadResumen(t, ResumenJobPayload{Member: 999900}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grupo no encontrado")
}

func TestResumenWorker_FallaEncoladoNoEsError(t *testing.T) {
	emails := &enqueuerStub{err: errors.New("redis down")}
	w := NewResumenWorker(&calculadorStub{resp: respuestaGrupo()}, emails, t.TempDir(), "Mutual")
	email := "x@example.com"

	assert.NoError(t, w.Process(context.Background(), payloadResumen(t, ResumenJobPayload{Member: 13800, Email: &email})))
}
