package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const grupoFijo = `
periodo: "01/2024"
plan:
  codigo: 7
  nombre: FAMILIAR
  importe_fijo: true
  precio_titular: "10000"
  precio_adherente: "4000"
  adherente_desde: 1
sistema:
  edad_recargo: 65
  importe_recargo: "1000"
integrantes:
  - numero: 500
    nombre: TITULAR
    fecha_nacimiento: "1983-06-01"
  - numero: 501
    nombre: ADHERENTE
    fecha_nacimiento: "1953-06-01"
    ajuste: "-500"
`

func escribir(t *testing.T, contenido string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grupo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contenido), 0o600))
	return path
}

func ejecutar(t *testing.T, args ...string) (string, error) {
	t.Helper()
	decimal.MarshalJSONWithoutQuotes = true
	cmd := newRootCmd(func() time.Time { return time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC) })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGrupo_JSON(t *testing.T) {
	out, err := ejecutar(t, "grupo", escribir(t, grupoFijo), "--json")
	require.NoError(t, err)

	var res struct {
		Period string          `json:"period"`
		Total  decimal.Decimal `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "01/2024", res.Period)
	// 10000 + (4000 + 1000) - 500
	assert.True(t, decimal.NewFromInt(14500).Equal(res.Total), res.Total.String())
}

func TestGrupo_Tabla(t *testing.T) {
	out, err := ejecutar(t, "grupo", escribir(t, grupoFijo))
	require.NoError(t, err)
	assert.Contains(t, out, "5/00")
	assert.Contains(t, out, "5/01")
	assert.Contains(t, out, "14500")
}

func TestGrupo_PeriodoFlagPisaArchivo(t *testing.T) {
	out, err := ejecutar(t, "grupo", escribir(t, grupoFijo), "--json", "--periodo", "07/2024")
	require.NoError(t, err)
	assert.Contains(t, out, `"period": "07/2024"`)
}

const grupoSinNumeros = `
periodo: "01/2024"
plan:
  codigo: 7
  importe_fijo: true
  precio_titular: "10000"
  precio_adherente: "2000"
integrantes:
  - fecha_nacimiento: "1980-01-01"
  - fecha_nacimiento: "1990-01-01"
  - fecha_nacimiento: "2000-01-01"
`

func TestGrupo_SinNumerosAsignaPorPosicion(t *testing.T) {
	out, err := ejecutar(t, "grupo", escribir(t, grupoSinNumeros), "--json")
	require.NoError(t, err)

	var res struct {
		Total   decimal.Decimal `json:"total"`
		Detalle []struct {
			Role     string `json:"role"`
			Category int    `json:"category"`
		} `json:"per_member_breakdown"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, decimal.NewFromInt(14000).Equal(res.Total), res.Total.String())
	require.Len(t, res.Detalle, 3)
	assert.Equal(t, "TITULAR", res.Detalle[0].Role)
	assert.Equal(t, "ADHERENTE", res.Detalle[2].Role)
	assert.Equal(t, 2, res.Detalle[2].Category)
}

func TestGrupo_Errores(t *testing.T) {
	_, err := ejecutar(t, "grupo", escribir(t, grupoFijo), "--periodo", "7/2024")
	assert.ErrorContains(t, err, "periodo invalido")

	_, err = ejecutar(t, "grupo", escribir(t, "plan:\n  codigo: 1\n"))
	assert.ErrorContains(t, err, "integrantes vacio")

	_, err = ejecutar(t, "grupo", escribir(t, "integrantes:\n  - numero: 100\n    ajuste: abc\n"))
	assert.ErrorContains(t, err, "integrantes[0].ajuste")

	_, err = ejecutar(t, "grupo", escribir(t, "integrantes:\n  - numero: 500\n  - numero: 600\n"))
	assert.ErrorContains(t, err, "categoria repetida")

	_, err = ejecutar(t, "grupo", filepath.Join(t.TempDir(), "no-existe.yaml"))
	assert.Error(t, err)
}
