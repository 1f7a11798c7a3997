package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"afiliados/internal/dto"
	"afiliados/internal/model"
	"afiliados/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubBajaRepo struct {
	activos map[int64]model.Socio
	bajas   map[int64]repository.DatosBaja

	desde, hasta int64
}

func newStubBajaRepo(numeros ...int64) *stubBajaRepo {
	r := &stubBajaRepo{activos: map[int64]model.Socio{}, bajas: map[int64]repository.DatosBaja{}}
	for _, n := range numeros {
		r.activos[n] = model.Socio{NumeroCli: n, NombreCli: "SOCIO"}
	}
	return r
}

func (r *stubBajaRepo) BajaRango(_ context.Context, desde, hasta int64, datos repository.DatosBaja) ([]model.Socio, error) {
	r.desde, r.hasta = desde, hasta
	var socios []model.Socio
	var dup []int64
	for n := desde; n <= hasta; n++ {
		if s, ok := r.activos[n]; ok {
			socios = append(socios, s)
			if _, ya := r.bajas[n]; ya {
				dup = append(dup, n)
			}
		}
	}
	if len(socios) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	if len(dup) > 0 {
		return nil, &repository.BajaDuplicadaError{Numeros: dup}
	}
	for _, s := range socios {
		r.bajas[s.NumeroCli] = datos
		delete(r.activos, s.NumeroCli)
	}
	return socios, nil
}

func newTestBajaService(repo *stubBajaRepo) *bajaService {
	return &bajaService{
		repo: repo,
		now:  func() time.Time { return time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC) },
	}
}

func TestDarDeBaja_Socio(t *testing.T) {
	repo := newStubBajaRepo(1200, 1201, 1202)
	svc := newTestBajaService(repo)

	resp, err := svc.DarDeBaja(context.Background(), 1201, dto.BajaRequest{
		FechaBaja: "2024-04-30",
		Motivo:    " fallecimiento ",
	}, "admin")
	require.NoError(t, err)
	assert.Equal(t, AlcanceSocio, resp.Alcance)
	assert.Equal(t, "2024-04-30", resp.FechaBaja)
	assert.Equal(t, []int64{1201}, resp.Numeros)
	assert.Equal(t, []string{"12/01"}, resp.Formatos)

	datos := repo.bajas[1201]
	assert.Equal(t, "fallecimiento", datos.Motivo)
	assert.Equal(t, "admin", datos.Usuario)
	assert.Len(t, repo.activos, 2)
}

func TestDarDeBaja_GrupoCompleto(t *testing.T) {
	repo := newStubBajaRepo(1200, 1201, 1299, 1300)
	svc := newTestBajaService(repo)

	resp, err := svc.DarDeBaja(context.Background(), 1201, dto.BajaRequest{Motivo: "renuncia", Alcance: "grupo"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, AlcanceGrupo, resp.Alcance)
	assert.Equal(t, int64(1200), repo.desde)
	assert.Equal(t, int64(1299), repo.hasta)
	assert.Equal(t, []int64{1200, 1201, 1299}, resp.Numeros)
	assert.Contains(t, repo.activos, int64(1300))
}

func TestDarDeBaja_FechaInvalidaUsaHoy(t *testing.T) {
	svc := newTestBajaService(newStubBajaRepo(5))

	resp, err := svc.DarDeBaja(context.Background(), 5, dto.BajaRequest{FechaBaja: "30/04/2024", Motivo: "mora"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", resp.FechaBaja)
}

func TestDarDeBaja_MotivoObligatorio(t *testing.T) {
	svc := newTestBajaService(newStubBajaRepo(5))

	_, err := svc.DarDeBaja(context.Background(), 5, dto.BajaRequest{Motivo: "   "}, "admin")
	assert.True(t, errors.Is(err, ErrValidacion))
}

func TestDarDeBaja_NoExiste(t *testing.T) {
	svc := newTestBajaService(newStubBajaRepo())

	_, err := svc.DarDeBaja(context.Background(), 7, dto.BajaRequest{Motivo: "mora"}, "admin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoEncontrado))
	assert.Contains(t, err.Error(), "socio 7")

	_, err = svc.DarDeBaja(context.Background(), 7, dto.BajaRequest{Motivo: "mora", Alcance: "grupo"}, "admin")
	assert.True(t, errors.Is(err, ErrNoEncontrado))
	assert.Contains(t, err.Error(), "0..99")
}

func TestDarDeBaja_Duplicada(t *testing.T) {
	repo := newStubBajaRepo(800, 801)
	repo.bajas[801] = repository.DatosBaja{Motivo: "anterior"}
	svc := newTestBajaService(repo)

	_, err := svc.DarDeBaja(context.Background(), 800, dto.BajaRequest{Motivo: "mora", Alcance: "grupo"}, "admin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicado))

	var conflicto *ConflictoError
	require.True(t, errors.As(err, &conflicto))
	assert.Equal(t, "DUP_BAJA", conflicto.Code)
	assert.Contains(t, conflicto.Msg, "8/01")
	assert.Len(t, repo.activos, 2, "a rejected baja moves nothing")
}
