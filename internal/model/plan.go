package model

import "github.com/shopspring/decimal"

// Plan is a pricing plan (planes). ImpfijPla == 1 means fixed prices;
// any other value means prices come from the edades table.
type Plan struct {
	CodigoPla int             `gorm:"column:codigo_pla;primaryKey;autoIncrement:false"`
	NombrePla string          `gorm:"column:nombre_pla;type:varchar(80);not null"`
	ImpfijPla int             `gorm:"column:impfij_pla;not null;default:0"`
	PrecioPla decimal.Decimal `gorm:"column:precio_pla;type:decimal(12,2);not null;default:0"`
	ImpadhPla decimal.Decimal `gorm:"column:impadh_pla;type:decimal(12,2);not null;default:0"`
	// DesdeaPla is the first adherent category that is billed; nil counts from 0.
	DesdeaPla *int `gorm:"column:desdea_pla"`
}

func (Plan) TableName() string { return "planes" }

func (p Plan) EsImporteFijo() bool { return p.ImpfijPla == 1 }

// Edad is one age-band row of a tabled plan (edades).
type Edad struct {
	CodplaEda int             `gorm:"column:codpla_eda;primaryKey;autoIncrement:false"`
	HastaeEda int             `gorm:"column:hastae_eda;primaryKey;autoIncrement:false"`
	ImptitEda decimal.Decimal `gorm:"column:imptit_eda;type:decimal(12,2);not null;default:0"`
	ImpadhEda decimal.Decimal `gorm:"column:impadh_eda;type:decimal(12,2);not null;default:0"`
}

func (Edad) TableName() string { return "edades" }
