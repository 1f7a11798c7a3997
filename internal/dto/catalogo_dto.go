package dto

import "github.com/shopspring/decimal"

type PlanResponse struct {
	Codigo          int             `json:"codigo"`
	Nombre          string          `json:"nombre"`
	Tipo            string          `json:"tipo"` // fixed | tabled
	PrecioTitular   decimal.Decimal `json:"precio_titular"`
	PrecioAdherente decimal.Decimal `json:"precio_adherente"`
	AdherenteDesde  int             `json:"adherente_desde"`
}

type ZonaResponse struct {
	Codigo   int              `json:"codigo"`
	Nombre   string           `json:"nombre"`
	Comision *decimal.Decimal `json:"comision"`
}
