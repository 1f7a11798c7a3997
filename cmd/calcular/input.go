package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"afiliados/internal/calculo"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// archivoGrupo is the YAML layout accepted by "calcular grupo".
// Amounts are strings so they are never parsed through float64.
type archivoGrupo struct {
	Periodo string `yaml:"periodo"`
	Plan    struct {
		Codigo          int    `yaml:"codigo"`
		Nombre          string `yaml:"nombre"`
		ImporteFijo     bool   `yaml:"importe_fijo"`
		PrecioTitular   string `yaml:"precio_titular"`
		PrecioAdherente string `yaml:"precio_adherente"`
		AdherenteDesde  int    `yaml:"adherente_desde"`
	} `yaml:"plan"`
	Sistema struct {
		EdadRecargo    *int    `yaml:"edad_recargo"`
		ImporteRecargo *string `yaml:"importe_recargo"`
	} `yaml:"sistema"`
	Tramos []struct {
		HastaEdad        int    `yaml:"hasta_edad"`
		ImporteTitular   string `yaml:"importe_titular"`
		ImporteAdherente string `yaml:"importe_adherente"`
	} `yaml:"tramos"`
	// Integrantes without numero take their category from their position.
	Integrantes []struct {
		Numero          *int64 `yaml:"numero"`
		Nombre          string `yaml:"nombre"`
		FechaNacimiento string `yaml:"fecha_nacimiento"`
		Ajuste          string `yaml:"ajuste"`
	} `yaml:"integrantes"`
}

func leerArchivo(path string) (*archivoGrupo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a archivoGrupo
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(a.Integrantes) == 0 {
		return nil, fmt.Errorf("%s: integrantes vacio", path)
	}
	return &a, nil
}

// entrada converts the file into calculator input; corte is the billing cutoff.
func (a *archivoGrupo) entrada(corte time.Time) (calculo.Entrada, error) {
	var err error
	in := calculo.Entrada{FechaCorte: corte}

	in.Plan = calculo.Plan{
		Codigo:         a.Plan.Codigo,
		Nombre:         a.Plan.Nombre,
		ImporteFijo:    a.Plan.ImporteFijo,
		AdherenteDesde: a.Plan.AdherenteDesde,
	}
	if in.Plan.PrecioTitular, err = importe("plan.precio_titular", a.Plan.PrecioTitular); err != nil {
		return in, err
	}
	if in.Plan.PrecioAdherente, err = importe("plan.precio_adherente", a.Plan.PrecioAdherente); err != nil {
		return in, err
	}

	in.Sistema.EdadRecargo = a.Sistema.EdadRecargo
	if a.Sistema.ImporteRecargo != nil {
		d, err := importe("sistema.importe_recargo", *a.Sistema.ImporteRecargo)
		if err != nil {
			return in, err
		}
		in.Sistema.ImporteRecargo = &d
	}

	for i, t := range a.Tramos {
		tramo := calculo.TramoEdad{CodigoPlan: a.Plan.Codigo, HastaEdad: t.HastaEdad}
		if tramo.ImporteTitular, err = importe(fmt.Sprintf("tramos[%d].importe_titular", i), t.ImporteTitular); err != nil {
			return in, err
		}
		if tramo.ImporteAdherente, err = importe(fmt.Sprintf("tramos[%d].importe_adherente", i), t.ImporteAdherente); err != nil {
			return in, err
		}
		in.Tramos = append(in.Tramos, tramo)
	}

	numeros := make([]*int64, len(a.Integrantes))
	for i, p := range a.Integrantes {
		numeros[i] = p.Numero
	}
	asignados, err := calculo.AsignarNumeros(numeros)
	if err != nil {
		return in, fmt.Errorf("integrantes: %w", err)
	}

	for i, p := range a.Integrantes {
		it := calculo.Integrante{Numero: asignados[i], Nombre: p.Nombre}
		if it.AjustePrepago, err = importe(fmt.Sprintf("integrantes[%d].ajuste", i), p.Ajuste); err != nil {
			return in, err
		}
		if s := strings.TrimSpace(p.FechaNacimiento); s != "" {
			fn, err := time.ParseInLocation("2006-01-02", s, corte.Location())
			if err != nil {
				return in, fmt.Errorf("integrantes[%d].fecha_nacimiento: debe ser YYYY-MM-DD", i)
			}
			it.FechaNacimiento = &fn
		}
		in.Integrantes = append(in.Integrantes, it)
	}
	return in, nil
}

// importe parses a decimal amount; blank means zero.
func importe(campo, v string) (decimal.Decimal, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: importe invalido %q", campo, v)
	}
	return d, nil
}
