package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"afiliados/internal/calculo"
	"afiliados/internal/dto"
	"afiliados/internal/model"
	"afiliados/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const (
	cacheKeyPlanes = "catalogo:planes"
	cacheKeyZonas  = "catalogo:zonas"
)

// CatalogoService serves the plan and zone catalogs through a Redis cache.
// The cache is best effort: any Redis failure falls back to the database.
type CatalogoService interface {
	ListarPlanes(ctx context.Context) ([]dto.PlanResponse, error)
	ListarZonas(ctx context.Context) ([]dto.ZonaResponse, error)
	Invalidar(ctx context.Context) error
}

type catalogoService struct {
	repo repository.CatalogoRepository
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCatalogoService builds the service; rdb may be nil to disable caching.
func NewCatalogoService(repo repository.CatalogoRepository, rdb *redis.Client, ttl time.Duration) CatalogoService {
	return &catalogoService{repo: repo, rdb: rdb, ttl: ttl}
}

func (s *catalogoService) ListarPlanes(ctx context.Context) ([]dto.PlanResponse, error) {
	return cached(ctx, s, cacheKeyPlanes, func() ([]dto.PlanResponse, error) {
		planes, err := s.repo.ListPlanes(ctx)
		if err != nil {
			return nil, err
		}
		return lo.Map(planes, func(p model.Plan, _ int) dto.PlanResponse {
			tipo := calculo.FuenteTabla
			if p.EsImporteFijo() {
				tipo = calculo.FuenteFijo
			}
			return dto.PlanResponse{
				Codigo:          p.CodigoPla,
				Nombre:          p.NombrePla,
				Tipo:            string(tipo),
				PrecioTitular:   p.PrecioPla,
				PrecioAdherente: p.ImpadhPla,
				AdherenteDesde:  lo.FromPtr(p.DesdeaPla),
			}
		}), nil
	})
}

func (s *catalogoService) ListarZonas(ctx context.Context) ([]dto.ZonaResponse, error) {
	return cached(ctx, s, cacheKeyZonas, func() ([]dto.ZonaResponse, error) {
		zonas, err := s.repo.ListZonas(ctx)
		if err != nil {
			return nil, err
		}
		return lo.Map(zonas, func(z model.Zona, _ int) dto.ZonaResponse {
			return dto.ZonaResponse{Codigo: z.CodigoZon, Nombre: z.NombreZon, Comision: z.ComisiZon}
		}), nil
	})
}

func (s *catalogoService) Invalidar(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, cacheKeyPlanes, cacheKeyZonas).Err()
}

// cached returns the JSON value at key or loads, stores and returns it.
func cached[T any](ctx context.Context, s *catalogoService, key string, load func() ([]T, error)) ([]T, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var out []T
			if jsonErr := json.Unmarshal(raw, &out); jsonErr == nil {
				return out, nil
			}
			log.Warn().Str("key", key).Msg("catalogo: corrupt cache entry, reloading")
		case !errors.Is(err, redis.Nil):
			log.Warn().Err(err).Str("key", key).Msg("catalogo: cache read failed")
		}
	}

	out, err := load()
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}

	if s.rdb != nil {
		if data, err := json.Marshal(out); err == nil {
			if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("catalogo: cache write failed")
			}
		}
	}
	return out, nil
}
