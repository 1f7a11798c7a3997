package calculo

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	criterioEdades = "primer tramo con hasta_edad >= edad"
	criterioAjuste = "ajuste final del grupo (suma de prepag_cli)"
)

// Calcular computes the group premium for one billing period.
//
// Members are processed in input order, which only affects the order of
// Resultado.Detalle. Missing data degrades to zero contributions and is
// reported in Resultado.Advertencias; the only error is a negative
// enrollment number.
func Calcular(in Entrada) (*Resultado, error) {
	plan := in.Plan
	fuentePlan := FuenteTabla
	if plan.ImporteFijo {
		fuentePlan = FuenteFijo
	}

	res := &Resultado{
		BaseTitular:       decimal.Zero,
		SumaAdherentes:    decimal.Zero,
		AjustePrepago:     decimal.Zero,
		RecargosAplicados: decimal.Zero,
		Detalle:           make([]DetallePersona, 0, len(in.Integrantes)),
		Advertencias:      []string{},
	}

	for _, per := range in.Integrantes {
		cls, err := Clasificar(per.Numero)
		if err != nil {
			return nil, err
		}
		edad := CalcularEdad(per.FechaNacimiento, in.FechaCorte)
		if per.FechaNacimiento == nil {
			res.Advertencias = append(res.Advertencias,
				fmt.Sprintf("integrante %d sin fecha de nacimiento: edad 0", per.Numero))
		}

		// The adjustment counts once per member, billed or not.
		res.AjustePrepago = res.AjustePrepago.Add(per.AjustePrepago)

		det := DetallePersona{
			Numero:        per.Numero,
			Nombre:        per.Nombre,
			Rol:           cls.Rol,
			Categoria:     cls.Categoria,
			Edad:          edad,
			Base:          decimal.Zero,
			Recargo:       decimal.Zero,
			Subtotal:      decimal.Zero,
			AjustePrepago: per.AjustePrepago,
		}

		if cls.Rol == RolAdherente && cls.Categoria < plan.AdherenteDesde {
			motivo := fmt.Sprintf("No computa (cat %d < desdeAdh %d)", cls.Categoria, plan.AdherenteDesde)
			det.MotivoNoComputa = &motivo
		} else {
			det.Fuente = fuentePlan
			if plan.ImporteFijo {
				det.Base = plan.PrecioAdherente
				if cls.Rol == RolTitular {
					det.Base = plan.PrecioTitular
				}
				det.Recargo = Recargo(edad, in.Sistema)
			} else if tramo, ok := BuscarTramo(in.Tramos, plan.Codigo, edad); ok {
				det.Base = tramo.ImporteAdherente
				if cls.Rol == RolTitular {
					det.Base = tramo.ImporteTitular
				}
				hasta := tramo.HastaEdad
				det.HastaEdad = &hasta
			} else {
				res.Advertencias = append(res.Advertencias,
					fmt.Sprintf("integrante %d: sin tramo de edad para plan %d y edad %d", per.Numero, plan.Codigo, edad))
			}
			det.Subtotal = det.Base.Add(det.Recargo)
		}

		if cls.Rol == RolTitular {
			res.BaseTitular = det.Subtotal
		} else {
			res.SumaAdherentes = res.SumaAdherentes.Add(det.Subtotal)
		}
		res.RecargosAplicados = res.RecargosAplicados.Add(det.Recargo)
		res.Detalle = append(res.Detalle, det)
	}

	res.SubtotalSinAjuste = res.BaseTitular.Add(res.SumaAdherentes)
	res.Bruto = res.SubtotalSinAjuste.Add(res.AjustePrepago)
	res.Total = res.Bruto

	res.Reglas = Reglas{
		Plan: ReglaPlan{Codigo: plan.Codigo, Tipo: fuentePlan, AdherenteDesde: plan.AdherenteDesde},
		Recargo: ReglaRecargo{
			AplicaEn:  FuenteFijo,
			DesdeEdad: in.Sistema.EdadRecargo,
			Importe:   in.Sistema.ImporteRecargo,
		},
		CriterioEdades: criterioEdades,
		Prepago:        criterioAjuste,
		FechaCorte:     in.FechaCorte.Format("2006-01-02"),
	}
	return res, nil
}
