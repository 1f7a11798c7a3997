package calculo

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNumeroInvalido is returned for negative enrollment numbers.
var ErrNumeroInvalido = errors.New("numero de socio invalido")

// Clasificacion is the role and adherent category derived from an enrollment number.
type Clasificacion struct {
	Categoria int
	Rol       Rol
}

// Clasificar derives role and category from the last two digits of numero:
// 00 is the titular, 01..99 are adherentes in enrollment order.
func Clasificar(numero int64) (Clasificacion, error) {
	if numero < 0 {
		return Clasificacion{}, fmt.Errorf("%w: %d", ErrNumeroInvalido, numero)
	}
	cat := int(numero % 100)
	rol := RolAdherente
	if cat == 0 {
		rol = RolTitular
	}
	return Clasificacion{Categoria: cat, Rol: rol}, nil
}

// ErrCategoriaRepetida is returned when two members resolve to the same
// category; two titulares are the most common case.
var ErrCategoriaRepetida = errors.New("categoria repetida en el grupo")

// AsignarNumeros resolves the enrollment number of members that do not have
// one yet. A nil entry at position i becomes base+i, where base is the group
// of the first explicit number (0 when there is none), so the first member is
// the titular and the rest are adherentes 01, 02... in input order.
func AsignarNumeros(numeros []*int64) ([]int64, error) {
	var base int64
	for _, n := range numeros {
		if n != nil {
			base = GrupoBase(*n)
			break
		}
	}

	out := make([]int64, len(numeros))
	vistos := make(map[int]int, len(numeros))
	for i, n := range numeros {
		out[i] = base + int64(i)
		if n != nil {
			out[i] = *n
		}
		cls, err := Clasificar(out[i])
		if err != nil {
			return nil, err
		}
		if j, ok := vistos[cls.Categoria]; ok {
			return nil, fmt.Errorf("%w: integrantes %d y %d tienen categoria %02d", ErrCategoriaRepetida, j, i, cls.Categoria)
		}
		vistos[cls.Categoria] = i
	}
	return out, nil
}

// GrupoBase returns the first enrollment number of numero's group (numero/100*100).
func GrupoBase(numero int64) int64 {
	return numero / 100 * 100
}

// FormatNumero renders numero as "<grupo>/<sufijo>", e.g. 13801 -> "138/01".
func FormatNumero(numero int64) string {
	return fmt.Sprintf("%d/%02d", numero/100, numero%100)
}

// CalcularEdad returns the calendar age at corte. A nil birth date yields 0,
// and so does a birth date after corte.
func CalcularEdad(fechaNac *time.Time, corte time.Time) int {
	if fechaNac == nil || fechaNac.IsZero() {
		return 0
	}
	edad := corte.Year() - fechaNac.Year()
	if corte.Month() < fechaNac.Month() ||
		(corte.Month() == fechaNac.Month() && corte.Day() < fechaNac.Day()) {
		edad--
	}
	if edad < 0 {
		return 0
	}
	return edad
}

// Recargo returns the flat surcharge when both system parameters are set and
// edad is strictly greater than the threshold. Only fixed-price plans use it.
func Recargo(edad int, s Sistema) decimal.Decimal {
	if s.EdadRecargo == nil || s.ImporteRecargo == nil {
		return decimal.Zero
	}
	if edad > *s.EdadRecargo {
		return *s.ImporteRecargo
	}
	return decimal.Zero
}

// BuscarTramo picks, among the rows of codigoPlan, the one with the smallest
// HastaEdad that is >= edad. ok is false when the member is older than every tier.
func BuscarTramo(tramos []TramoEdad, codigoPlan, edad int) (tramo TramoEdad, ok bool) {
	for _, t := range tramos {
		if t.CodigoPlan != codigoPlan || t.HastaEdad < edad {
			continue
		}
		if !ok || t.HastaEdad < tramo.HastaEdad {
			tramo, ok = t, true
		}
	}
	return tramo, ok
}
