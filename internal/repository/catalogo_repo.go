package repository

import (
	"context"

	"afiliados/internal/model"

	"gorm.io/gorm"
)

type CatalogoRepository interface {
	ListPlanes(ctx context.Context) ([]model.Plan, error)
	ListZonas(ctx context.Context) ([]model.Zona, error)
}

type catalogoRepo struct{ db *gorm.DB }

func NewCatalogoRepository(db *gorm.DB) CatalogoRepository { return &catalogoRepo{db: db} }

func (r *catalogoRepo) ListPlanes(ctx context.Context) ([]model.Plan, error) {
	var planes []model.Plan
	err := r.db.WithContext(ctx).Order("nombre_pla ASC").Find(&planes).Error
	return planes, err
}

func (r *catalogoRepo) ListZonas(ctx context.Context) ([]model.Zona, error) {
	var zonas []model.Zona
	err := r.db.WithContext(ctx).Order("nombre_zon ASC").Find(&zonas).Error
	return zonas, err
}
