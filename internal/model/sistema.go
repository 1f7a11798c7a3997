package model

import "github.com/shopspring/decimal"

// Sistema is the single-row system parameters table.
type Sistema struct {
	ID int `gorm:"primaryKey"`
	// RecaedSis is the age threshold of the surcharge; RecaimSis its flat amount.
	RecaedSis *int             `gorm:"column:recaed_sis"`
	RecaimSis *decimal.Decimal `gorm:"column:recaim_sis;type:decimal(12,2)"`
}

func (Sistema) TableName() string { return "sistema" }
