package dto

type BajaRequest struct {
	FechaBaja     string  `json:"fecha_baja"`
	Motivo        string  `json:"motivo"        validate:"required,min=2,max=120"`
	Observaciones *string `json:"observaciones" validate:"omitempty,max=500"`
	Alcance       string  `json:"alcance"       validate:"omitempty,oneof=socio grupo"`
}

type BajaResponse struct {
	Alcance   string   `json:"alcance"`
	FechaBaja string   `json:"fecha_baja"`
	Numeros   []int64  `json:"numeros"`
	Formatos  []string `json:"numeros_fmt"`
}
