package repository

import (
	"context"
	"strconv"
	"strings"

	"afiliados/internal/dto"
	"afiliados/internal/model"

	"gorm.io/gorm"
)

// SocioRepository is the data access contract for maecli.
type SocioRepository interface {
	FindByNumero(ctx context.Context, numero int64) (*model.Socio, error)
	List(ctx context.Context, filter dto.AfiliadoFilter) ([]model.Socio, int64, error)
	Create(ctx context.Context, s *model.Socio) error
	// Update rewrites the row identified by numeroActual; s.NumeroCli may differ.
	Update(ctx context.Context, numeroActual int64, s *model.Socio) error
	UltimoNumero(ctx context.Context) (*int64, error)
	ExisteNumero(ctx context.Context, numero int64) (bool, error)
	// ExisteDNI ignores the row numbered excluir when it is non-nil.
	ExisteDNI(ctx context.Context, dni string, excluir *int64) (bool, error)
}

type socioRepo struct{ db *gorm.DB }

func NewSocioRepository(db *gorm.DB) SocioRepository { return &socioRepo{db: db} }

func (r *socioRepo) FindByNumero(ctx context.Context, numero int64) (*model.Socio, error) {
	var s model.Socio
	err := r.db.WithContext(ctx).Where("numero_cli = ?", numero).First(&s).Error
	return &s, err
}

// List implements the two search modes of the member grid:
//   - tipo=numero: suffix 00 means the whole group, otherwise the exact number;
//     a non-numeric q yields an empty page
//   - tipo=nombre: case-insensitive prefix match on nombre_cli
func (r *socioRepo) List(ctx context.Context, filter dto.AfiliadoFilter) ([]model.Socio, int64, error) {
	var socios []model.Socio
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Socio{})
	term := strings.TrimSpace(filter.Q)
	order := "numero_cli ASC"

	if strings.EqualFold(filter.Tipo, "nombre") {
		order = "nombre_cli ASC, numero_cli ASC"
		if term != "" {
			prefijo := strings.Join(strings.Fields(strings.ToUpper(term)), " ")
			q = q.Where("UPPER(nombre_cli) LIKE ?", escapeLike(prefijo)+"%")
		}
	} else if term != "" {
		n, err := strconv.ParseInt(term, 10, 64)
		if err != nil || n < 0 {
			return []model.Socio{}, 0, nil
		}
		if n%100 == 0 {
			q = q.Where("numero_cli BETWEEN ? AND ?", n, n+99)
		} else {
			q = q.Where("numero_cli = ?", n)
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := q.Order(order).Limit(filter.PageSize).Offset(offset).Find(&socios).Error
	return socios, total, err
}

func (r *socioRepo) Create(ctx context.Context, s *model.Socio) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *socioRepo) Update(ctx context.Context, numeroActual int64, s *model.Socio) error {
	res := r.db.WithContext(ctx).Model(&model.Socio{}).
		Where("numero_cli = ?", numeroActual).
		Select("*").
		Updates(s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *socioRepo) UltimoNumero(ctx context.Context) (*int64, error) {
	var numeros []int64
	err := r.db.WithContext(ctx).Model(&model.Socio{}).
		Order("numero_cli DESC").Limit(1).
		Pluck("numero_cli", &numeros).Error
	if err != nil || len(numeros) == 0 {
		return nil, err
	}
	return &numeros[0], nil
}

func (r *socioRepo) ExisteNumero(ctx context.Context, numero int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Socio{}).Where("numero_cli = ?", numero).Count(&count).Error
	return count > 0, err
}

func (r *socioRepo) ExisteDNI(ctx context.Context, dni string, excluir *int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Socio{}).Where("nrodoc_cli = ?", dni)
	if excluir != nil {
		q = q.Where("numero_cli <> ?", *excluir)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
