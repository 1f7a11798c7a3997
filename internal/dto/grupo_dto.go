package dto

import (
	"afiliados/internal/calculo"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CalculoGrupoQuery accepts both the English and the legacy Spanish parameter names.
type CalculoGrupoQuery struct {
	Member  string `form:"member"`
	Socio   string `form:"socio"`
	Period  string `form:"period"`
	Periodo string `form:"periodo"`
}

type IntegranteBorrador struct {
	// EnrollmentNumber is optional; when absent the category follows the
	// position in members (first = titular, then adherentes 01, 02...).
	EnrollmentNumber      *int64           `json:"enrollment_number"       validate:"omitempty,min=0"`
	Name                  string           `json:"name"                    validate:"max=120"`
	BirthDate             *string          `json:"birth_date"              validate:"omitempty,datetime=2006-01-02"`
	PreExistingAdjustment *decimal.Decimal `json:"pre_existing_adjustment"`
}

type BorradorRequest struct {
	Period   string               `json:"period"`
	PlanCode int                  `json:"plan_code" validate:"required,min=1"`
	Members  []IntegranteBorrador `json:"members"   validate:"required,min=1,max=100,dive"`
}

type ResumenRequest struct {
	Member *int64  `json:"member" validate:"required,min=0"`
	Period string  `json:"period"`
	Email  *string `json:"email"  validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PlanRef struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

type CalculoGrupoResponse struct {
	Total                      decimal.Decimal          `json:"total"`
	Period                     string                   `json:"period"`
	Member                     int64                    `json:"member"`
	Plan                       PlanRef                  `json:"plan"`
	TitularBase                decimal.Decimal          `json:"titular_base"`
	AdherentsSum               decimal.Decimal          `json:"adherents_sum"`
	SubtotalBeforeAdjustment   decimal.Decimal          `json:"subtotal_before_adjustment"`
	PreExistingAdjustmentTotal decimal.Decimal          `json:"pre_existing_adjustment_total"`
	GrossTotal                 decimal.Decimal          `json:"gross_total"`
	SurchargesApplied          decimal.Decimal          `json:"surcharges_applied"`
	Breakdown                  []calculo.DetallePersona `json:"breakdown"`
	Rules                      calculo.Reglas           `json:"rules"`
	Warnings                   []string                 `json:"warnings"`
}

// BorradorResponse is the full calculation result plus the period used.
type BorradorResponse struct {
	Period string `json:"period"`
	*calculo.Resultado
}

type JobEncoladoResponse struct {
	JobID  string `json:"job_id"`
	Estado string `json:"estado"`
}
