package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"afiliados/internal/calculo"
	"afiliados/internal/dto"
	"afiliados/internal/model"
	"afiliados/internal/repository"
	"afiliados/internal/worker"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GrupoService resolves billing groups and runs the premium calculation.
type GrupoService interface {
	CalcularGrupo(ctx context.Context, numero int64, periodo string) (*dto.CalculoGrupoResponse, error)
	CalcularBorrador(ctx context.Context, req dto.BorradorRequest) (*dto.BorradorResponse, error)
	SolicitarResumen(ctx context.Context, req dto.ResumenRequest, usuario string) (*dto.JobEncoladoResponse, error)
}

// ResumenEnqueuer is the part of worker.Dispatcher this service needs.
type ResumenEnqueuer interface {
	EnqueueResumen(ctx context.Context, payload worker.ResumenJobPayload) (string, error)
}

type grupoService struct {
	repo    repository.GrupoRepository
	resumen ResumenEnqueuer
	now     func() time.Time
}

func NewGrupoService(repo repository.GrupoRepository, resumen ResumenEnqueuer) GrupoService {
	return &grupoService{repo: repo, resumen: resumen, now: time.Now}
}

// ── CalcularGrupo ─────────────────────────────────────────────────────────────
// Persisted group: members are every row of base..base+99, the plan is the
// titular's (row numbered base). An absent or malformed period means today.

func (s *grupoService) CalcularGrupo(ctx context.Context, numero int64, periodo string) (*dto.CalculoGrupoResponse, error) {
	if numero < 0 {
		return nil, invalido("numero de socio invalido: %d", numero)
	}
	base := calculo.GrupoBase(numero)

	socios, err := s.repo.ListIntegrantes(ctx, base)
	if err != nil {
		return nil, err
	}
	if len(socios) == 0 {
		return nil, noEncontrado("grupo %s no encontrado o sin integrantes", calculo.FormatNumero(base))
	}

	plan, err := s.repo.FindPlanDelTitular(ctx, base)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, noEncontrado("plan del titular del grupo %s no encontrado", calculo.FormatNumero(base))
	}
	if err != nil {
		return nil, err
	}

	corte := calculo.FechaCorte(periodo, s.now())
	res, err := s.calcular(ctx, lo.Map(socios, socioAIntegrante), plan, corte)
	if err != nil {
		return nil, err
	}

	return &dto.CalculoGrupoResponse{
		Total:                      res.Total,
		Period:                     calculo.FormatPeriodo(corte),
		Member:                     numero,
		Plan:                       dto.PlanRef{Code: plan.CodigoPla, Name: plan.NombrePla},
		TitularBase:                res.BaseTitular,
		AdherentsSum:               res.SumaAdherentes,
		SubtotalBeforeAdjustment:   res.SubtotalSinAjuste,
		PreExistingAdjustmentTotal: res.AjustePrepago,
		GrossTotal:                 res.Bruto,
		SurchargesApplied:          res.RecargosAplicados,
		Breakdown:                  res.Detalle,
		Rules:                      res.Reglas,
		Warnings:                   res.Advertencias,
	}, nil
}

// ── CalcularBorrador ──────────────────────────────────────────────────────────
// What-if calculation for members that are not persisted yet. Unlike the
// persisted variant, a non-empty malformed period is rejected. Members without
// a number take their category from their position; repeated categories are
// a validation error.

func (s *grupoService) CalcularBorrador(ctx context.Context, req dto.BorradorRequest) (*dto.BorradorResponse, error) {
	if len(req.Members) == 0 {
		return nil, invalido("members es requerido")
	}
	corte, err := s.fechaCorteEstricta(req.Period)
	if err != nil {
		return nil, err
	}

	plan, err := s.repo.FindPlan(ctx, req.PlanCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, noEncontrado("plan %d no encontrado", req.PlanCode)
	}
	if err != nil {
		return nil, err
	}

	numeros, err := calculo.AsignarNumeros(lo.Map(req.Members, func(m dto.IntegranteBorrador, _ int) *int64 {
		return m.EnrollmentNumber
	}))
	if err != nil {
		return nil, invalido("members: %v", err)
	}

	integrantes := make([]calculo.Integrante, 0, len(req.Members))
	for i, m := range req.Members {
		in := calculo.Integrante{Numero: numeros[i], Nombre: m.Name, AjustePrepago: decimal.Zero}
		if m.PreExistingAdjustment != nil {
			in.AjustePrepago = *m.PreExistingAdjustment
		}
		if m.BirthDate != nil && strings.TrimSpace(*m.BirthDate) != "" {
			fn, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(*m.BirthDate), corte.Location())
			if err != nil {
				return nil, invalido("members[%d].birth_date debe ser YYYY-MM-DD", i)
			}
			in.FechaNacimiento = &fn
		}
		integrantes = append(integrantes, in)
	}

	res, err := s.calcular(ctx, integrantes, plan, corte)
	if err != nil {
		return nil, err
	}
	return &dto.BorradorResponse{Period: calculo.FormatPeriodo(corte), Resultado: res}, nil
}

// ── SolicitarResumen ──────────────────────────────────────────────────────────

func (s *grupoService) SolicitarResumen(ctx context.Context, req dto.ResumenRequest, usuario string) (*dto.JobEncoladoResponse, error) {
	if req.Member == nil || *req.Member < 0 {
		return nil, invalido("member es requerido")
	}
	corte, err := s.fechaCorteEstricta(req.Period)
	if err != nil {
		return nil, err
	}

	base := calculo.GrupoBase(*req.Member)
	socios, err := s.repo.ListIntegrantes(ctx, base)
	if err != nil {
		return nil, err
	}
	if len(socios) == 0 {
		return nil, noEncontrado("grupo %s no encontrado o sin integrantes", calculo.FormatNumero(base))
	}

	jobID, err := s.resumen.EnqueueResumen(ctx, worker.ResumenJobPayload{
		Member:        *req.Member,
		Period:        calculo.FormatPeriodo(corte),
		Email:         req.Email,
		SolicitadoPor: usuario,
	})
	if err != nil {
		return nil, fmt.Errorf("encolar resumen: %w", err)
	}
	return &dto.JobEncoladoResponse{JobID: jobID, Estado: "encolado"}, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *grupoService) fechaCorteEstricta(periodo string) (time.Time, error) {
	ahora := s.now()
	if strings.TrimSpace(periodo) == "" {
		return ahora, nil
	}
	corte, ok := calculo.ParsePeriodo(periodo, ahora.Location())
	if !ok {
		return time.Time{}, invalido("periodo invalido %q, formato MM/YYYY", periodo)
	}
	return corte, nil
}

func (s *grupoService) calcular(ctx context.Context, integrantes []calculo.Integrante, plan *model.Plan, corte time.Time) (*calculo.Resultado, error) {
	sistema, err := s.repo.GetSistema(ctx)
	if err != nil {
		return nil, err
	}

	var tramos []calculo.TramoEdad
	if !plan.EsImporteFijo() {
		edades, err := s.repo.ListEdades(ctx, plan.CodigoPla)
		if err != nil {
			return nil, err
		}
		tramos = lo.Map(edades, func(e model.Edad, _ int) calculo.TramoEdad {
			return calculo.TramoEdad{
				CodigoPlan:       e.CodplaEda,
				HastaEdad:        e.HastaeEda,
				ImporteTitular:   e.ImptitEda,
				ImporteAdherente: e.ImpadhEda,
			}
		})
	}

	res, err := calculo.Calcular(calculo.Entrada{
		Integrantes: integrantes,
		Plan:        planACalculo(plan),
		Sistema:     calculo.Sistema{EdadRecargo: sistema.RecaedSis, ImporteRecargo: sistema.RecaimSis},
		Tramos:      tramos,
		FechaCorte:  corte,
	})
	if errors.Is(err, calculo.ErrNumeroInvalido) {
		return nil, invalido("%v", err)
	}
	return res, err
}

func socioAIntegrante(s model.Socio, _ int) calculo.Integrante {
	return calculo.Integrante{
		Numero:          s.NumeroCli,
		Nombre:          s.NombreCli,
		FechaNacimiento: s.FnacimCli,
		AjustePrepago:   s.PrepagCli,
	}
}

func planACalculo(p *model.Plan) calculo.Plan {
	return calculo.Plan{
		Codigo:          p.CodigoPla,
		Nombre:          p.NombrePla,
		ImporteFijo:     p.EsImporteFijo(),
		PrecioTitular:   p.PrecioPla,
		PrecioAdherente: p.ImpadhPla,
		AdherenteDesde:  lo.FromPtr(p.DesdeaPla),
	}
}
