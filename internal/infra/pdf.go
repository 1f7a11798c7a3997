package infra

// pdf.go: group statement ("resumen de cuota") PDF using go-pdf/fpdf.
// A4 portrait with:
//   - Organization header and billing period
//   - Group number, plan and titular
//   - One row per member (number, name, role, age, base, surcharge, subtotal, adjustment)
//   - Totals block: subtotal, adjustment, total
//
// The output file is saved to storagePath/resumen_{grupo}_{MMYYYY}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// ResumenLinea is one member row of the statement.
type ResumenLinea struct {
	Numero    string
	Nombre    string
	Rol       string
	Edad      int
	Base      decimal.Decimal
	Recargo   decimal.Decimal
	Subtotal  decimal.Decimal
	Ajuste    decimal.Decimal
	NoComputa string
}

// ResumenCuota is everything printed on a group statement.
type ResumenCuota struct {
	Organizacion string
	Grupo        int64
	GrupoFmt     string
	Periodo      string // MM/YYYY
	Plan         string
	Lineas       []ResumenLinea
	Subtotal     decimal.Decimal
	Ajuste       decimal.Decimal
	Total        decimal.Decimal
	Advertencias []string
	GeneradoEn   time.Time
}

// GenerateResumenPDF renders r to storagePath (created if needed) and returns the file path.
func GenerateResumenPDF(r ResumenCuota, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("resumen_%d_%s.pdf", r.Grupo, strings.ReplaceAll(r.Periodo, "/", ""))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(r.Organizacion), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Resumen de cuota - Período "+r.Periodo), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW/2, 5, "Grupo "+r.GrupoFmt, "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, tr("Plan: "+r.Plan), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Emitido: "+r.GeneradoEn.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Member table ──────────────────────────────────────────────────────────
	cols := []struct {
		titulo string
		ancho  float64
		align  string
	}{
		{"Número", 0.10, "L"},
		{"Nombre", 0.28, "L"},
		{"Rol", 0.12, "L"},
		{"Edad", 0.06, "C"},
		{"Base", 0.11, "R"},
		{"Recargo", 0.11, "R"},
		{"Subtotal", 0.11, "R"},
		{"Ajuste", 0.11, "R"},
	}
	pdf.SetFont("Helvetica", "B", 8)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(contentW*c.ancho, 6, tr(c.titulo), "B", ln, c.align, false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 8)
	for _, l := range r.Lineas {
		nombre := []rune(l.Nombre)
		if len(nombre) > 32 {
			nombre = append(nombre[:31], '.')
		}
		celdas := []string{
			l.Numero, string(nombre), l.Rol, fmt.Sprintf("%d", l.Edad),
			importe(l.Base), importe(l.Recargo), importe(l.Subtotal), importe(l.Ajuste),
		}
		for i, c := range cols {
			ln := 0
			if i == len(cols)-1 {
				ln = 1
			}
			pdf.CellFormat(contentW*c.ancho, 5, tr(celdas[i]), "", ln, c.align, false, 0, "")
		}
		if l.NoComputa != "" {
			pdf.SetFont("Helvetica", "I", 7)
			pdf.CellFormat(contentW, 4, tr("    "+l.NoComputa), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 8)
		}
	}

	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	labelW := contentW * 0.78
	valueW := contentW * 0.22
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(labelW, 5, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(valueW, 5, importe(r.Subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 5, "Ajuste:", "", 0, "R", false, 0, "")
	pdf.CellFormat(valueW, 5, importe(r.Ajuste), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 7, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(valueW, 7, importe(r.Total), "", 1, "R", false, 0, "")

	if len(r.Advertencias) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 7)
		for _, a := range r.Advertencias {
			pdf.MultiCell(contentW, 4, tr("* "+a), "", "L", false)
		}
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// importe prints d with two decimals unless that would drop precision.
func importe(d decimal.Decimal) string {
	if d.Equal(d.Truncate(2)) {
		return "$" + d.StringFixed(2)
	}
	return "$" + d.String()
}
