package service

import (
	"fmt"
	"strings"

	"afiliados/internal/model"
)

var pesosCUIT = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// CalcularCUIT derives a CUIT/CUIL from a DNI and the sexooo_cli code:
// prefix 20 (male) or 27 (female), the DNI left-padded to 8 digits and the
// mod-11 check digit (11 → 0, 10 → 9).
func CalcularCUIT(dni string, sexo int) (string, error) {
	dni = strings.TrimSpace(dni)
	if dni == "" || len(dni) > 8 || strings.Trim(dni, "0123456789") != "" {
		return "", fmt.Errorf("dni invalido para CUIT: %q", dni)
	}
	prefijo := "20"
	if sexo == model.SexoFemenino {
		prefijo = "27"
	}
	base := prefijo + strings.Repeat("0", 8-len(dni)) + dni

	suma := 0
	for i, ch := range base {
		suma += int(ch-'0') * pesosCUIT[i]
	}
	dv := 11 - suma%11
	switch dv {
	case 11:
		dv = 0
	case 10:
		dv = 9
	}
	return fmt.Sprintf("%s%d", base, dv), nil
}
