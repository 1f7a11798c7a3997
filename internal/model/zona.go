package model

import "github.com/shopspring/decimal"

// Zona is a collection zone (zonas) with the collector's commission.
type Zona struct {
	CodigoZon int              `gorm:"column:codigo_zon;primaryKey;autoIncrement:false"`
	NombreZon string           `gorm:"column:nombre_zon;type:varchar(80);not null"`
	ComisiZon *decimal.Decimal `gorm:"column:comisi_zon;type:decimal(6,2)"`
}

func (Zona) TableName() string { return "zonas" }
