package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sexo codes stored in sexooo_cli.
const (
	SexoMasculino = 1
	SexoFemenino  = 2
)

// Socio is one row of the member master table (maecli).
// NumeroCli encodes the billing group: numero/100*100 is the titular,
// the last two digits are the adherent category (00 = titular).
type Socio struct {
	NumeroCli int64      `gorm:"column:numero_cli;primaryKey;autoIncrement:false"`
	NombreCli string     `gorm:"column:nombre_cli;type:varchar(120);index"`
	TipdocCli *string    `gorm:"column:tipdoc_cli;type:varchar(10)"`
	NrodocCli *string    `gorm:"column:nrodoc_cli;type:varchar(15);index"`
	CuitCli   *string    `gorm:"column:cuit_cli;type:varchar(13)"`
	SexoCli   *int       `gorm:"column:sexooo_cli"`
	FnacimCli *time.Time `gorm:"column:fnacim_cli;type:date"`
	DomiciCli *string    `gorm:"column:domici_cli;type:varchar(120)"`
	CiudadCli *string    `gorm:"column:ciudad_cli;type:varchar(60)"`
	CodposCli *string    `gorm:"column:codpos_cli;type:varchar(10)"`
	TelcelCli *string    `gorm:"column:telcel_cli;type:varchar(30)"`
	CodzonCli *int       `gorm:"column:codzon_cli"`
	CodplaCli *int       `gorm:"column:codpla_cli"`
	// PrepagCli is the signed pre-existing adjustment added to the group total.
	PrepagCli decimal.Decimal `gorm:"column:prepag_cli;type:decimal(12,2);not null;default:0"`
	FecingCli *time.Time      `gorm:"column:fecing_cli;type:date"`
	FecvigCli *time.Time      `gorm:"column:fecvig_cli;type:date"`
	ObservCli *string         `gorm:"column:observ_cli;type:text"`
	EdadCli   *int            `gorm:"column:edad_cli"`
}

func (Socio) TableName() string { return "maecli" }
