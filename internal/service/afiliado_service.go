package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"afiliados/internal/calculo"
	"afiliados/internal/dto"
	"afiliados/internal/model"
	"afiliados/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	pageSizeDefault = 20
	pageSizeMax     = 200
	fechaISO        = "2006-01-02"
)

// AfiliadoService manages member records (maecli).
type AfiliadoService interface {
	Listar(ctx context.Context, filter dto.AfiliadoFilter) (*dto.AfiliadoListResponse, error)
	Obtener(ctx context.Context, numero int64) (*dto.AfiliadoResponse, error)
	UltimoNumero(ctx context.Context) (*dto.UltimoNumeroResponse, error)
	Crear(ctx context.Context, req dto.AfiliadoRequest) (*dto.AfiliadoResponse, error)
	Actualizar(ctx context.Context, numero int64, req dto.AfiliadoRequest) (*dto.AfiliadoResponse, error)
}

type afiliadoService struct {
	repo repository.SocioRepository
	now  func() time.Time
}

func NewAfiliadoService(repo repository.SocioRepository) AfiliadoService {
	return &afiliadoService{repo: repo, now: time.Now}
}

func (s *afiliadoService) Listar(ctx context.Context, filter dto.AfiliadoFilter) (*dto.AfiliadoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = pageSizeDefault
	}
	if filter.PageSize > pageSizeMax {
		filter.PageSize = pageSizeMax
	}

	socios, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.AfiliadoListResponse{
		Data:       lo.Map(socios, func(so model.Socio, _ int) dto.AfiliadoResponse { return socioToResponse(&so) }),
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}, nil
}

func (s *afiliadoService) Obtener(ctx context.Context, numero int64) (*dto.AfiliadoResponse, error) {
	so, err := s.repo.FindByNumero(ctx, numero)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, noEncontrado("socio %d no encontrado", numero)
	}
	if err != nil {
		return nil, err
	}
	resp := socioToResponse(so)
	return &resp, nil
}

func (s *afiliadoService) UltimoNumero(ctx context.Context) (*dto.UltimoNumeroResponse, error) {
	n, err := s.repo.UltimoNumero(ctx)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return &dto.UltimoNumeroResponse{}, nil
	}
	return &dto.UltimoNumeroResponse{Numero: n, NumeroFmt: lo.ToPtr(calculo.FormatNumero(*n))}, nil
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Number and DNI must be unique. When CUIT is empty it is derived from DNI
// and sex; edad_cli is always recomputed from the birth date.

func (s *afiliadoService) Crear(ctx context.Context, req dto.AfiliadoRequest) (*dto.AfiliadoResponse, error) {
	so, err := s.requestToSocio(req)
	if err != nil {
		return nil, err
	}

	existe, err := s.repo.ExisteNumero(ctx, so.NumeroCli)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, dupNumero(so.NumeroCli)
	}
	if err := s.verificarDNI(ctx, so.NrodocCli, nil); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, so); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, dupNumero(so.NumeroCli)
		}
		return nil, err
	}
	log.Info().Int64("numero", so.NumeroCli).Msg("afiliado creado")
	resp := socioToResponse(so)
	return &resp, nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// The number itself may change; the new one must be free.

func (s *afiliadoService) Actualizar(ctx context.Context, numero int64, req dto.AfiliadoRequest) (*dto.AfiliadoResponse, error) {
	if _, err := s.repo.FindByNumero(ctx, numero); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, noEncontrado("socio %d no encontrado", numero)
		}
		return nil, err
	}

	so, err := s.requestToSocio(req)
	if err != nil {
		return nil, err
	}
	if so.NumeroCli != numero {
		existe, err := s.repo.ExisteNumero(ctx, so.NumeroCli)
		if err != nil {
			return nil, err
		}
		if existe {
			return nil, dupNumero(so.NumeroCli)
		}
	}
	if err := s.verificarDNI(ctx, so.NrodocCli, &numero); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, numero, so); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, noEncontrado("socio %d no encontrado", numero)
		}
		return nil, err
	}
	if so.NumeroCli != numero {
		log.Info().Int64("numero_anterior", numero).Int64("numero", so.NumeroCli).Msg("afiliado renumerado")
	}
	resp := socioToResponse(so)
	return &resp, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *afiliadoService) verificarDNI(ctx context.Context, dni *string, excluir *int64) error {
	if dni == nil || *dni == "" {
		return nil
	}
	existe, err := s.repo.ExisteDNI(ctx, *dni, excluir)
	if err != nil {
		return err
	}
	if existe {
		return &ConflictoError{Code: "DUP_DNI", Field: "nrodoc_cli", Msg: "El DNI ya existe."}
	}
	return nil
}

func dupNumero(n int64) error {
	return &ConflictoError{
		Code:  "DUP_NUMERO",
		Field: "numero_cli",
		Msg:   "El número de socio " + calculo.FormatNumero(n) + " ya existe.",
	}
}

func (s *afiliadoService) requestToSocio(req dto.AfiliadoRequest) (*model.Socio, error) {
	if req.NumeroCli == nil || *req.NumeroCli < 0 {
		return nil, invalido("numero_cli es requerido")
	}
	so := &model.Socio{
		NumeroCli: *req.NumeroCli,
		NombreCli: strings.TrimSpace(req.NombreCli),
		TipdocCli: blankToNil(req.TipdocCli),
		NrodocCli: blankToNil(req.NrodocCli),
		CuitCli:   blankToNil(req.CuitCli),
		SexoCli:   req.SexoCli,
		DomiciCli: blankToNil(req.DomiciCli),
		CiudadCli: blankToNil(req.CiudadCli),
		CodposCli: blankToNil(req.CodposCli),
		TelcelCli: blankToNil(req.TelcelCli),
		CodzonCli: req.CodzonCli,
		CodplaCli: req.CodplaCli,
		PrepagCli: decimal.Zero,
		ObservCli: req.ObservCli,
	}
	if req.PrepagCli != nil {
		so.PrepagCli = *req.PrepagCli
	}

	var err error
	if so.FnacimCli, err = parseFecha("fnacim_cli", req.FnacimCli); err != nil {
		return nil, err
	}
	if so.FecingCli, err = parseFecha("fecing_cli", req.FecingCli); err != nil {
		return nil, err
	}
	if so.FecvigCli, err = parseFecha("fecvig_cli", req.FecvigCli); err != nil {
		return nil, err
	}
	if so.FnacimCli != nil {
		so.EdadCli = lo.ToPtr(calculo.CalcularEdad(so.FnacimCli, s.now()))
	}

	if so.CuitCli == nil && so.NrodocCli != nil {
		cuit, err := CalcularCUIT(*so.NrodocCli, lo.FromPtr(so.SexoCli))
		if err != nil {
			return nil, invalido("%v", err)
		}
		so.CuitCli = &cuit
	}
	return so, nil
}

func parseFecha(campo string, v *string) (*time.Time, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	t, err := time.Parse(fechaISO, strings.TrimSpace(*v))
	if err != nil {
		return nil, invalido("%s debe ser YYYY-MM-DD", campo)
	}
	return &t, nil
}

func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func fechaToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return lo.ToPtr(t.Format(fechaISO))
}

func socioToResponse(s *model.Socio) dto.AfiliadoResponse {
	return dto.AfiliadoResponse{
		NumeroCli: s.NumeroCli,
		NumeroFmt: calculo.FormatNumero(s.NumeroCli),
		NombreCli: s.NombreCli,
		TipdocCli: s.TipdocCli,
		NrodocCli: s.NrodocCli,
		CuitCli:   s.CuitCli,
		SexoCli:   s.SexoCli,
		FnacimCli: fechaToString(s.FnacimCli),
		DomiciCli: s.DomiciCli,
		CiudadCli: s.CiudadCli,
		CodposCli: s.CodposCli,
		TelcelCli: s.TelcelCli,
		CodzonCli: s.CodzonCli,
		CodplaCli: s.CodplaCli,
		PrepagCli: s.PrepagCli,
		FecingCli: fechaToString(s.FecingCli),
		FecvigCli: fechaToString(s.FecvigCli),
		ObservCli: s.ObservCli,
		EdadCli:   s.EdadCli,
	}
}
