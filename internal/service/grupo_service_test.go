package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"afiliados/internal/calculo"
	"afiliados/internal/dto"
	"afiliados/internal/model"
	"afiliados/internal/worker"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory GrupoRepository ────────────────────────────────────────────────

type stubGrupoRepo struct {
	socios  []model.Socio
	planes  map[int]*model.Plan
	edades  []model.Edad
	sistema model.Sistema

	edadesCalls int
}

func (r *stubGrupoRepo) ListIntegrantes(_ context.Context, base int64) ([]model.Socio, error) {
	return lo.Filter(r.socios, func(s model.Socio, _ int) bool {
		return s.NumeroCli >= base && s.NumeroCli <= base+99
	}), nil
}

func (r *stubGrupoRepo) FindPlanDelTitular(_ context.Context, base int64) (*model.Plan, error) {
	tit, ok := lo.Find(r.socios, func(s model.Socio) bool { return s.NumeroCli == base })
	if !ok || tit.CodplaCli == nil {
		return nil, gorm.ErrRecordNotFound
	}
	p, ok := r.planes[*tit.CodplaCli]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubGrupoRepo) FindPlan(_ context.Context, codigo int) (*model.Plan, error) {
	p, ok := r.planes[codigo]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubGrupoRepo) ListEdades(_ context.Context, codigoPlan int) ([]model.Edad, error) {
	r.edadesCalls++
	return lo.Filter(r.edades, func(e model.Edad, _ int) bool { return e.CodplaEda == codigoPlan }), nil
}

func (r *stubGrupoRepo) GetSistema(_ context.Context) (*model.Sistema, error) {
	s := r.sistema
	return &s, nil
}

type stubResumenEnqueuer struct {
	payloads []worker.ResumenJobPayload
	err      error
}

func (e *stubResumenEnqueuer) EnqueueResumen(_ context.Context, p worker.ResumenJobPayload) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.payloads = append(e.payloads, p)
	return "job-1", nil
}

// ── Fixtures ──────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fecha(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

// Plan 1 is fixed (10000 / 2000), plan 2 is tabled with bands up to 30 and 65.
func newGrupoFixture() *stubGrupoRepo {
	return &stubGrupoRepo{
		socios: []model.Socio{
			{NumeroCli: 1500, NombreCli: "TITULAR FIJO", FnacimCli: fecha("1950-06-01"), CodplaCli: lo.ToPtr(1), PrepagCli: decimal.Zero},
			{NumeroCli: 1501, NombreCli: "ADH JOVEN", FnacimCli: fecha("1990-01-15"), PrepagCli: dec("-1000")},
			{NumeroCli: 1502, NombreCli: "ADH MAYOR", FnacimCli: fecha("1960-02-01"), PrepagCli: decimal.Zero},
			{NumeroCli: 2700, NombreCli: "TITULAR TABLA", FnacimCli: fecha("2000-01-01"), CodplaCli: lo.ToPtr(2), PrepagCli: decimal.Zero},
			{NumeroCli: 2701, NombreCli: "ADH TABLA", FnacimCli: fecha("1970-01-01"), PrepagCli: decimal.Zero},
			{NumeroCli: 3300, NombreCli: "SIN PLAN", PrepagCli: decimal.Zero},
		},
		planes: map[int]*model.Plan{
			1: {CodigoPla: 1, NombrePla: "FIJO", ImpfijPla: 1, PrecioPla: dec("10000"), ImpadhPla: dec("2000")},
			2: {CodigoPla: 2, NombrePla: "TABLA", ImpfijPla: 0},
		},
		edades: []model.Edad{
			{CodplaEda: 2, HastaeEda: 30, ImptitEda: dec("5000"), ImpadhEda: dec("3000")},
			{CodplaEda: 2, HastaeEda: 65, ImptitEda: dec("8000"), ImpadhEda: dec("4500")},
		},
		sistema: model.Sistema{ID: 1, RecaedSis: lo.ToPtr(60), RecaimSis: lo.ToPtr(dec("500"))},
	}
}

func newTestGrupoService(repo *stubGrupoRepo, enq ResumenEnqueuer) *grupoService {
	return &grupoService{
		repo:    repo,
		resumen: enq,
		now:     func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) },
	}
}

// ── CalcularGrupo ─────────────────────────────────────────────────────────────

func TestCalcularGrupo_PlanFijoConRecargoYAjuste(t *testing.T) {
	repo := newGrupoFixture()
	svc := newTestGrupoService(repo, nil)

	res, err := svc.CalcularGrupo(context.Background(), 1501, "03/2024")
	require.NoError(t, err)

	// 10000 + 500 (73 años) + 2000 (34) + 2000 + 500 (64) - 1000
	assert.True(t, dec("10500").Equal(res.TitularBase))
	assert.True(t, dec("4500").Equal(res.AdherentsSum))
	assert.True(t, dec("15000").Equal(res.SubtotalBeforeAdjustment))
	assert.True(t, dec("-1000").Equal(res.PreExistingAdjustmentTotal))
	assert.True(t, dec("14000").Equal(res.Total))
	assert.True(t, res.Total.Equal(res.GrossTotal))
	assert.True(t, dec("1000").Equal(res.SurchargesApplied))
	assert.Equal(t, "03/2024", res.Period)
	assert.Equal(t, int64(1501), res.Member)
	assert.Equal(t, dto.PlanRef{Code: 1, Name: "FIJO"}, res.Plan)
	assert.Len(t, res.Breakdown, 3)
	assert.Equal(t, "2024-03-01", res.Rules.FechaCorte)
	assert.Zero(t, repo.edadesCalls, "fixed plans do not read age bands")
}

func TestCalcularGrupo_PlanPorTabla(t *testing.T) {
	repo := newGrupoFixture()
	svc := newTestGrupoService(repo, nil)

	res, err := svc.CalcularGrupo(context.Background(), 2700, "01/2024")
	require.NoError(t, err)

	// titular 24 años → tramo 30; adherente 54 → tramo 65; sin recargo
	assert.True(t, dec("5000").Equal(res.TitularBase))
	assert.True(t, dec("4500").Equal(res.AdherentsSum))
	assert.True(t, dec("9500").Equal(res.Total))
	assert.True(t, res.SurchargesApplied.IsZero())
	assert.Equal(t, 1, repo.edadesCalls)
	require.NotNil(t, res.Breakdown[1].HastaEdad)
	assert.Equal(t, 65, *res.Breakdown[1].HastaEdad)
}

func TestCalcularGrupo_PeriodoInvalidoUsaHoy(t *testing.T) {
	svc := newTestGrupoService(newGrupoFixture(), nil)

	for _, p := range []string{"", "13/2024", "2024-03", "abc"} {
		res, err := svc.CalcularGrupo(context.Background(), 1500, p)
		require.NoError(t, err, p)
		assert.Equal(t, "05/2024", res.Period, p)
	}
}

func TestCalcularGrupo_GrupoInexistente(t *testing.T) {
	svc := newTestGrupoService(newGrupoFixture(), nil)

	_, err := svc.CalcularGrupo(context.Background(), 9900, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoEncontrado))
}

func TestCalcularGrupo_TitularSinPlan(t *testing.T) {
	svc := newTestGrupoService(newGrupoFixture(), nil)

	_, err := svc.CalcularGrupo(context.Background(), 3300, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoEncontrado))
	assert.Contains(t, err.Error(), "33/00")
}

func TestCalcularGrupo_NumeroNegativo(t *testing.T) {
	svc := newTestGrupoService(newGrupoFixture(), nil)

	_, err := svc.CalcularGrupo(context.Background(), -5, "")
	assert.True(t, errors.Is(err, ErrValidacion))
}

// ── CalcularBorrador ──────────────────────────────────────────────────────────

func TestCalcularBorrador_Fijo(t *testing.T) {
	svc := newTestGrupoService(newGrupoFixture(), nil)

	res, err := svc.CalcularBorrador(context.Background(), dto.BorradorRequest{
		Period:   "03/2024",
		PlanCode: 1,
		Members: []dto.IntegranteBorrador{
			{EnrollmentNumber: lo.ToPtr(int64(4200)), Name: "NUEVO", BirthDate: lo.ToPtr("1980-03-01")},
			{EnrollmentNumber: lo.ToPtr(int64(4201)), BirthDate: lo.ToPtr("2010-07-20"), PreExistingAdjustment: lo.ToPtr(dec("250.5"))},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "03/2024", res.Period)
	assert.True(t, dec("12250.5").Equal(res.Total))
	assert.Equal(t, calculo.RolTitular, res.Detalle[0].Rol)
	assert.Equal(t, 44, res.Detalle[0].Edad)
}

func TestCalcularBorrador_SinNumerosAsignaPorPosicion(t *testing.T) {
	svc := newTestGrupoService(newGrupoFixture(), nil)

	res, err := svc.CalcularBorrador(context.Background(), dto.BorradorRequest{
		PlanCode: 1,
		Members: []dto.IntegranteBorrador{
			{BirthDate: lo.ToPtr("1980-01-01")},
			{BirthDate: lo.ToPtr("1990-01-01")},
			{BirthDate: lo.ToPtr("2000-01-01")},
		},
	})
	require.NoError(t, err)

	// 10000 + 2000 + 2000, nobody above the surcharge age
	assert.True(t, dec("14000").Equal(res.Total), res.Total.String())
	assert.True(t, dec("10000").Equal(res.BaseTitular))
	assert.True(t, dec("4000").Equal(res.SumaAdherentes))
	require.Len(t, res.Detalle, 3)
	assert.Equal(t, calculo.RolTitular, res.Detalle[0].Rol)
	for i, d := range res.Detalle[1:] {
		assert.Equal(t, calculo.RolAdherente, d.Rol)
		assert.Equal(t, i+1, d.Categoria)
	}
}

func TestCalcularBorrador_DosTitularesEsInvalido(t *testing.T) {
	svc := newTestGrupoService(newGrupoFixture(), nil)

	_, err := svc.CalcularBorrador(context.Background(), dto.BorradorRequest{
		PlanCode: 1,
		Members: []dto.IntegranteBorrador{
			{EnrollmentNumber: lo.ToPtr(int64(4200))},
			{EnrollmentNumber: lo.ToPtr(int64(4300))},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidacion))
	assert.Contains(t, err.Error(), "categoria 00")

	_, err = svc.CalcularBorrador(context.Background(), dto.BorradorRequest{
		PlanCode: 1,
		Members: []dto.IntegranteBorrador{
			{BirthDate: lo.ToPtr("1980-01-01")},
			{EnrollmentNumber: lo.ToPtr(int64(1))},
		},
	})
	assert.True(t, errors.Is(err, ErrValidacion))
}

func TestCalcularBorrador_PeriodoInvalido(t *testing.T) {
	svc := newTestGrupoService(newGrupoFixture(), nil)

	_, err := svc.CalcularBorrador(context.Background(), dto.BorradorRequest{
		Period:   "00/2024",
		PlanCode: 1,
		Members:  []dto.IntegranteBorrador{{EnrollmentNumber: lo.ToPtr(int64(100))}},
	})
	assert.True(t, errors.Is(err, ErrValidacion))
}

func TestCalcularBorrador_PlanInexistente(t *testing.T) {
	svc := newTestGrupoService(newGrupoFixture(), nil)

	_, err := svc.CalcularBorrador(context.Background(), dto.BorradorRequest{
		PlanCode: 99,
		Members:  []dto.IntegranteBorrador{{EnrollmentNumber: lo.ToPtr(int64(100))}},
	})
	assert.True(t, errors.Is(err, ErrNoEncontrado))
}

func TestCalcularBorrador_FechaNacimientoInvalida(t *testing.T) {
	svc := newTestGrupoService(newGrupoFixture(), nil)

	_, err := svc.CalcularBorrador(context.Background(), dto.BorradorRequest{
		PlanCode: 1,
		Members:  []dto.IntegranteBorrador{{EnrollmentNumber: lo.ToPtr(int64(100)), BirthDate: lo.ToPtr("01/02/1980")}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidacion))
	assert.Contains(t, err.Error(), "members[0]")
}

func TestCalcularBorrador_SinIntegrantes(t *testing.T) {
	svc := newTestGrupoService(newGrupoFixture(), nil)

	_, err := svc.CalcularBorrador(context.Background(), dto.BorradorRequest{PlanCode: 1})
	assert.True(t, errors.Is(err, ErrValidacion))
}

// ── SolicitarResumen ──────────────────────────────────────────────────────────

func TestSolicitarResumen_Encola(t *testing.T) {
	enq := &stubResumenEnqueuer{}
	svc := newTestGrupoService(newGrupoFixture(), enq)

	res, err := svc.SolicitarResumen(context.Background(), dto.ResumenRequest{
		Member: lo.ToPtr(int64(1502)),
		Email:  lo.ToPtr("socio@example.com"),
	}, "operador1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", res.JobID)
	assert.Equal(t, "encolado", res.Estado)

	require.Len(t, enq.payloads, 1)
	p := enq.payloads[0]
	assert.Equal(t, int64(1502), p.Member)
	assert.Equal(t, "05/2024", p.Period)
	assert.Equal(t, "operador1", p.SolicitadoPor)
	assert.Equal(t, "socio@example.com", *p.Email)
}

func TestSolicitarResumen_GrupoInexistente(t *testing.T) {
	enq := &stubResumenEnqueuer{}
	svc := newTestGrupoService(newGrupoFixture(), enq)

	_, err := svc.SolicitarResumen(context.Background(), dto.ResumenRequest{Member: lo.ToPtr(int64(9900))}, "x")
	assert.True(t, errors.Is(err, ErrNoEncontrado))
	assert.Empty(t, enq.payloads)
}

func TestSolicitarResumen_ErrorDeCola(t *testing.T) {
	enq := &stubResumenEnqueuer{err: errors.New("redis down")}
	svc := newTestGrupoService(newGrupoFixture(), enq)

	_, err := svc.SolicitarResumen(context.Background(), dto.ResumenRequest{Member: lo.ToPtr(int64(1500))}, "x")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrValidacion))
	assert.Contains(t, err.Error(), "redis down")
}
