// Package calculo computes the monthly premium of a billing group
// (titular + adherentes) for a pricing plan and a billing period.
//
// Everything here is pure: callers fetch members, plan, age bands and system
// parameters beforehand and pass them in. Monetary values are decimal and are
// never rounded.
package calculo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rol is the role a member plays inside its billing group.
type Rol string

const (
	RolTitular   Rol = "TITULAR"
	RolAdherente Rol = "ADHERENTE"
)

// Fuente tells where a member's base price came from.
type Fuente string

const (
	FuenteFijo  Fuente = "fixed"  // plan de importe fijo
	FuenteTabla Fuente = "tabled" // plan por tabla de edades
)

// Integrante is one member of a billing group, already mapped from the record store.
type Integrante struct {
	Numero          int64
	Nombre          string
	FechaNacimiento *time.Time
	// AjustePrepago is the signed pre-existing adjustment (prepag_cli).
	AjustePrepago decimal.Decimal
}

// Plan is the pricing plan of the group's titular.
type Plan struct {
	Codigo          int
	Nombre          string
	ImporteFijo     bool
	PrecioTitular   decimal.Decimal
	PrecioAdherente decimal.Decimal
	// AdherenteDesde is the lowest adherent category that is billed (desdea_pla).
	AdherenteDesde int
}

// TramoEdad is one age-band row of a tabled plan.
type TramoEdad struct {
	CodigoPlan       int
	HastaEdad        int
	ImporteTitular   decimal.Decimal
	ImporteAdherente decimal.Decimal
}

// Sistema holds the system-wide surcharge parameters. A nil field disables the surcharge.
type Sistema struct {
	EdadRecargo    *int
	ImporteRecargo *decimal.Decimal
}

// Entrada groups everything Calcular needs.
type Entrada struct {
	Integrantes []Integrante
	Plan        Plan
	Sistema     Sistema
	// Tramos may contain rows of other plans; only rows of Plan.Codigo are considered.
	Tramos     []TramoEdad
	FechaCorte time.Time
}

// DetallePersona is one row of the per-member breakdown.
type DetallePersona struct {
	Numero          int64           `json:"enrollment_number"`
	Nombre          string          `json:"name,omitempty"`
	Rol             Rol             `json:"role"`
	Categoria       int             `json:"category"`
	Edad            int             `json:"age"`
	// Fuente is empty, and pricing_source absent from JSON, for rows that are not billed.
	Fuente          Fuente          `json:"pricing_source,omitempty"`
	HastaEdad       *int            `json:"age_band_upper_bound"`
	Base            decimal.Decimal `json:"base"`
	Recargo         decimal.Decimal `json:"surcharge"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	AjustePrepago   decimal.Decimal `json:"pre_existing_adjustment"`
	MotivoNoComputa *string         `json:"non_computed_reason"`
}

type ReglaPlan struct {
	Codigo         int    `json:"code"`
	Tipo           Fuente `json:"type"`
	AdherenteDesde int    `json:"adherent_counts_from"`
}

type ReglaRecargo struct {
	AplicaEn  Fuente           `json:"applies_to"`
	DesdeEdad *int             `json:"threshold_age"`
	Importe   *decimal.Decimal `json:"amount"`
}

// Reglas echoes the rules applied, for auditing on the caller side.
type Reglas struct {
	Plan           ReglaPlan    `json:"plan"`
	Recargo        ReglaRecargo `json:"surcharge"`
	CriterioEdades string       `json:"age_band_criterion"`
	Prepago        string       `json:"adjustment"`
	FechaCorte     string       `json:"cutoff_date"`
}

// Resultado is the output of Calcular.
// Invariant: Total == SubtotalSinAjuste + AjustePrepago.
type Resultado struct {
	BaseTitular       decimal.Decimal  `json:"titular_base"`
	SumaAdherentes    decimal.Decimal  `json:"adherents_sum"`
	SubtotalSinAjuste decimal.Decimal  `json:"subtotal_before_adjustment"`
	AjustePrepago     decimal.Decimal  `json:"pre_existing_adjustment_total"`
	Bruto             decimal.Decimal  `json:"gross_total"`
	Total             decimal.Decimal  `json:"total"`
	RecargosAplicados decimal.Decimal  `json:"surcharges_applied"`
	Detalle           []DetallePersona `json:"per_member_breakdown"`
	Reglas            Reglas           `json:"rules_echo"`
	Advertencias      []string         `json:"warnings"`
}
