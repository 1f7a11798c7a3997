package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AfiliadoRequest carries every editable maecli field. Dates are YYYY-MM-DD.
type AfiliadoRequest struct {
	NumeroCli *int64           `json:"numero_cli" validate:"required,min=0"`
	NombreCli string           `json:"nombre_cli" validate:"required,min=2,max=120"`
	TipdocCli *string          `json:"tipdoc_cli" validate:"omitempty,max=10"`
	NrodocCli *string          `json:"nrodoc_cli" validate:"omitempty,numeric,min=6,max=8"`
	CuitCli   *string          `json:"cuit_cli"   validate:"omitempty,numeric,len=11"`
	SexoCli   *int             `json:"sexooo_cli" validate:"omitempty,oneof=1 2"`
	FnacimCli *string          `json:"fnacim_cli" validate:"omitempty,datetime=2006-01-02"`
	DomiciCli *string          `json:"domici_cli" validate:"omitempty,max=120"`
	CiudadCli *string          `json:"ciudad_cli" validate:"omitempty,max=60"`
	CodposCli *string          `json:"codpos_cli" validate:"omitempty,max=10"`
	TelcelCli *string          `json:"telcel_cli" validate:"omitempty,max=30"`
	CodzonCli *int             `json:"codzon_cli"`
	CodplaCli *int             `json:"codpla_cli"`
	PrepagCli *decimal.Decimal `json:"prepag_cli"`
	FecingCli *string          `json:"fecing_cli" validate:"omitempty,datetime=2006-01-02"`
	FecvigCli *string          `json:"fecvig_cli" validate:"omitempty,datetime=2006-01-02"`
	ObservCli *string          `json:"observ_cli"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type AfiliadoFilter struct {
	Tipo     string `form:"tipo"` // numero | nombre
	Q        string `form:"q"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"` // default 20, capped at 200
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AfiliadoResponse struct {
	NumeroCli int64           `json:"numero_cli"`
	NumeroFmt string          `json:"numero_fmt"`
	NombreCli string          `json:"nombre_cli"`
	TipdocCli *string         `json:"tipdoc_cli"`
	NrodocCli *string         `json:"nrodoc_cli"`
	CuitCli   *string         `json:"cuit_cli"`
	SexoCli   *int            `json:"sexooo_cli"`
	FnacimCli *string         `json:"fnacim_cli"`
	DomiciCli *string         `json:"domici_cli"`
	CiudadCli *string         `json:"ciudad_cli"`
	CodposCli *string         `json:"codpos_cli"`
	TelcelCli *string         `json:"telcel_cli"`
	CodzonCli *int            `json:"codzon_cli"`
	CodplaCli *int            `json:"codpla_cli"`
	PrepagCli decimal.Decimal `json:"prepag_cli"`
	FecingCli *string         `json:"fecing_cli"`
	FecvigCli *string         `json:"fecvig_cli"`
	ObservCli *string         `json:"observ_cli"`
	EdadCli   *int            `json:"edad_cli"`
}

type AfiliadoListResponse struct {
	Data       []AfiliadoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

type UltimoNumeroResponse struct {
	Numero    *int64  `json:"numero"`
	NumeroFmt *string `json:"numero_fmt"`
}
