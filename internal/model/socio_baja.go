package model

import (
	"time"
)

// SocioBaja is a deactivated member: a copy of its maecli row plus the
// deactivation data. numero_cli stays the primary key, so a number can be
// deactivated only once.
type SocioBaja struct {
	Socio `gorm:"embedded"`

	FechaBaja   time.Time `gorm:"column:fecha_baja;type:date;not null"`
	MotivoBaja  string    `gorm:"column:motivo_baja;type:varchar(120);not null"`
	ObsBaja     *string   `gorm:"column:obs_baja;type:text"`
	UsuarioBaja string    `gorm:"column:usuario_baja;type:varchar(150);not null"`
	CreatedAt   time.Time
}

func (SocioBaja) TableName() string { return "maecli_bajas" }
