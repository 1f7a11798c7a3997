package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"afiliados/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BajaDuplicadaError reports numbers that are already in maecli_bajas.
type BajaDuplicadaError struct {
	Numeros []int64
}

func (e *BajaDuplicadaError) Error() string {
	return fmt.Sprintf("numeros ya dados de baja: %v", e.Numeros)
}

// DatosBaja is the deactivation data stamped on every moved row.
type DatosBaja struct {
	Fecha         time.Time
	Motivo        string
	Observaciones *string
	Usuario       string
}

// BajaRepository moves members from maecli to maecli_bajas.
// Each call runs in a single transaction with the source rows locked.
type BajaRepository interface {
	// BajaRango moves every row numbered desde..hasta. It returns
	// gorm.ErrRecordNotFound when the range is empty and *BajaDuplicadaError
	// when any number is already deactivated.
	BajaRango(ctx context.Context, desde, hasta int64, datos DatosBaja) ([]model.Socio, error)
}

type bajaRepo struct{ db *gorm.DB }

func NewBajaRepository(db *gorm.DB) BajaRepository { return &bajaRepo{db: db} }

func (r *bajaRepo) BajaRango(ctx context.Context, desde, hasta int64, datos DatosBaja) ([]model.Socio, error) {
	var socios []model.Socio
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("numero_cli BETWEEN ? AND ?", desde, hasta).
			Order("numero_cli ASC").
			Find(&socios).Error; err != nil {
			return err
		}
		if len(socios) == 0 {
			return gorm.ErrRecordNotFound
		}

		numeros := make([]int64, len(socios))
		for i, s := range socios {
			numeros[i] = s.NumeroCli
		}

		var repetidos []int64
		if err := tx.Model(&model.SocioBaja{}).
			Where("numero_cli IN ?", numeros).
			Pluck("numero_cli", &repetidos).Error; err != nil {
			return err
		}
		if len(repetidos) > 0 {
			sort.Slice(repetidos, func(i, j int) bool { return repetidos[i] < repetidos[j] })
			return &BajaDuplicadaError{Numeros: repetidos}
		}

		bajas := make([]model.SocioBaja, len(socios))
		for i, s := range socios {
			bajas[i] = model.SocioBaja{
				Socio:       s,
				FechaBaja:   datos.Fecha,
				MotivoBaja:  datos.Motivo,
				ObsBaja:     datos.Observaciones,
				UsuarioBaja: datos.Usuario,
			}
		}
		if err := tx.Create(&bajas).Error; err != nil {
			return err
		}
		return tx.Where("numero_cli IN ?", numeros).Delete(&model.Socio{}).Error
	})
	if err != nil {
		return nil, err
	}
	return socios, nil
}
