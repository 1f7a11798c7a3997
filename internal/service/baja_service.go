package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"afiliados/internal/calculo"
	"afiliados/internal/dto"
	"afiliados/internal/model"
	"afiliados/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

const (
	AlcanceSocio = "socio"
	AlcanceGrupo = "grupo"
)

// BajaService deactivates a member or a whole group.
type BajaService interface {
	DarDeBaja(ctx context.Context, numero int64, req dto.BajaRequest, usuario string) (*dto.BajaResponse, error)
}

type bajaService struct {
	repo repository.BajaRepository
	now  func() time.Time
}

func NewBajaService(repo repository.BajaRepository) BajaService {
	return &bajaService{repo: repo, now: time.Now}
}

// DarDeBaja moves the member (alcance "socio", the default) or every member of
// its group (alcance "grupo") to maecli_bajas. A missing or malformed
// fecha_baja means today.
func (s *bajaService) DarDeBaja(ctx context.Context, numero int64, req dto.BajaRequest, usuario string) (*dto.BajaResponse, error) {
	if numero < 0 {
		return nil, invalido("numero de socio invalido: %d", numero)
	}
	motivo := strings.TrimSpace(req.Motivo)
	if motivo == "" {
		return nil, invalido("El motivo es obligatorio.")
	}

	fecha := s.now()
	if t, err := time.ParseInLocation(fechaISO, strings.TrimSpace(req.FechaBaja), fecha.Location()); err == nil {
		fecha = t
	}
	fecha = time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, fecha.Location())

	alcance := AlcanceSocio
	desde, hasta := numero, numero
	if strings.EqualFold(req.Alcance, AlcanceGrupo) {
		alcance = AlcanceGrupo
		desde = calculo.GrupoBase(numero)
		hasta = desde + 99
	}

	socios, err := s.repo.BajaRango(ctx, desde, hasta, repository.DatosBaja{
		Fecha:         fecha,
		Motivo:        motivo,
		Observaciones: blankToNil(req.Observaciones),
		Usuario:       usuario,
	})
	if err != nil {
		var dup *repository.BajaDuplicadaError
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound) && alcance == AlcanceGrupo:
			return nil, noEncontrado("No hay socios activos en el rango %d..%d", desde, hasta)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, noEncontrado("No existe el socio %d", numero)
		case errors.As(err, &dup):
			return nil, &ConflictoError{
				Code:  "DUP_BAJA",
				Field: "numero_cli",
				Msg:   "Ya figuran en maecli_bajas: " + strings.Join(lo.Map(dup.Numeros, func(n int64, _ int) string { return calculo.FormatNumero(n) }), ", "),
			}
		}
		return nil, err
	}

	numeros := lo.Map(socios, func(so model.Socio, _ int) int64 { return so.NumeroCli })
	log.Info().
		Str("alcance", alcance).
		Ints64("numeros", numeros).
		Str("usuario", usuario).
		Msg("baja registrada")

	return &dto.BajaResponse{
		Alcance:   alcance,
		FechaBaja: fecha.Format(fechaISO),
		Numeros:   numeros,
		Formatos:  lo.Map(numeros, func(n int64, _ int) string { return calculo.FormatNumero(n) }),
	}, nil
}
