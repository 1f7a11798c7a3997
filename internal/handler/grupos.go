package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"afiliados/internal/apierror"
	"afiliados/internal/calculo"
	"afiliados/internal/dto"
	"afiliados/internal/service"

	"github.com/gin-gonic/gin"
)

type GruposHandler struct{ svc service.GrupoService }

func NewGruposHandler(svc service.GrupoService) *GruposHandler {
	return &GruposHandler{svc: svc}
}

// Calcular godoc
// @Summary Cuota mensual de un grupo persistido
// @Description Resuelve el grupo (base..base+99) y el plan del titular y calcula la cuota.
// @Description Un periodo ausente o mal formado usa la fecha actual.
// @Tags grupos
// @Security BearerAuth
// @Produce json
// @Param member query int true "Numero de socio (alias: socio)"
// @Param period query string false "Periodo MM/YYYY (alias: periodo)"
// @Success 200 {object} dto.CalculoGrupoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/group-premium [get]
func (h *GruposHandler) Calcular(c *gin.Context) {
	var q dto.CalculoGrupoQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	raw := strings.TrimSpace(firstNonEmpty(q.Member, q.Socio))
	if raw == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Falta member"))
		return
	}
	numero, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("member debe ser un numero entero"))
		return
	}

	resp, err := h.svc.CalcularGrupo(c.Request.Context(), numero, firstNonEmpty(q.Period, q.Periodo))
	if err != nil {
		respondError(c, err, "Error al calcular la cuota del grupo")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Borrador godoc
// @Summary Cuota de un grupo aun no persistido
// @Tags grupos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.BorradorRequest true "Plan e integrantes"
// @Success 200 {object} dto.BorradorResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/group-premium/draft [post]
func (h *GruposHandler) Borrador(c *gin.Context) {
	var req dto.BorradorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if !periodoValido(c, req.Period) {
		return
	}
	resp, err := h.svc.CalcularBorrador(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Error al calcular el borrador")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary Encola el resumen de cuota en PDF
// @Description El PDF se genera en segundo plano; si se indica email se envia adjunto.
// @Tags grupos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.ResumenRequest true "Grupo, periodo y email"
// @Success 202 {object} dto.JobEncoladoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/group-premium/statement [post]
func (h *GruposHandler) Resumen(c *gin.Context) {
	var req dto.ResumenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if !periodoValido(c, req.Period) {
		return
	}
	resp, err := h.svc.SolicitarResumen(c.Request.Context(), req, usuarioActual(c))
	if err != nil {
		respondError(c, err, "Error al encolar el resumen")
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// periodoValido writes a 400 for a non-empty period that is not MM/YYYY.
func periodoValido(c *gin.Context, periodo string) bool {
	if strings.TrimSpace(periodo) == "" {
		return true
	}
	if _, ok := calculo.ParsePeriodo(periodo, time.UTC); !ok {
		c.JSON(http.StatusBadRequest, apierror.New("Periodo invalido, formato MM/YYYY"))
		return false
	}
	return true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
