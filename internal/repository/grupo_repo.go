package repository

import (
	"context"
	"errors"

	"afiliados/internal/model"

	"gorm.io/gorm"
)

// GrupoRepository resolves a billing group and its pricing inputs.
// A group is every maecli row numbered base..base+99 where base = numero/100*100.
type GrupoRepository interface {
	ListIntegrantes(ctx context.Context, base int64) ([]model.Socio, error)
	// FindPlanDelTitular returns the plan referenced by the row numbered base.
	FindPlanDelTitular(ctx context.Context, base int64) (*model.Plan, error)
	FindPlan(ctx context.Context, codigo int) (*model.Plan, error)
	ListEdades(ctx context.Context, codigoPlan int) ([]model.Edad, error)
	// GetSistema returns a zero Sistema when the table is empty.
	GetSistema(ctx context.Context) (*model.Sistema, error)
}

type grupoRepo struct{ db *gorm.DB }

func NewGrupoRepository(db *gorm.DB) GrupoRepository { return &grupoRepo{db: db} }

func (r *grupoRepo) ListIntegrantes(ctx context.Context, base int64) ([]model.Socio, error) {
	var socios []model.Socio
	err := r.db.WithContext(ctx).
		Where("numero_cli BETWEEN ? AND ?", base, base+99).
		Order("numero_cli ASC").
		Find(&socios).Error
	return socios, err
}

func (r *grupoRepo) FindPlanDelTitular(ctx context.Context, base int64) (*model.Plan, error) {
	var p model.Plan
	err := r.db.WithContext(ctx).
		Joins("JOIN maecli m ON m.codpla_cli = planes.codigo_pla").
		Where("m.numero_cli = ?", base).
		First(&p).Error
	return &p, err
}

func (r *grupoRepo) FindPlan(ctx context.Context, codigo int) (*model.Plan, error) {
	var p model.Plan
	err := r.db.WithContext(ctx).Where("codigo_pla = ?", codigo).First(&p).Error
	return &p, err
}

func (r *grupoRepo) ListEdades(ctx context.Context, codigoPlan int) ([]model.Edad, error) {
	var edades []model.Edad
	err := r.db.WithContext(ctx).
		Where("codpla_eda = ?", codigoPlan).
		Order("hastae_eda ASC").
		Find(&edades).Error
	return edades, err
}

func (r *grupoRepo) GetSistema(ctx context.Context) (*model.Sistema, error) {
	var s model.Sistema
	err := r.db.WithContext(ctx).Order("id ASC").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.Sistema{}, nil
	}
	return &s, err
}
