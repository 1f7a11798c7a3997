package handler

import (
	"net/http"

	"afiliados/internal/apierror"
	"afiliados/internal/dto"
	"afiliados/internal/service"

	"github.com/gin-gonic/gin"
)

type AfiliadosHandler struct {
	svc   service.AfiliadoService
	bajas service.BajaService
}

func NewAfiliadosHandler(svc service.AfiliadoService, bajas service.BajaService) *AfiliadosHandler {
	return &AfiliadosHandler{svc: svc, bajas: bajas}
}

// Listar godoc
// @Summary Lista socios
// @Description tipo=numero con sufijo 00 devuelve el grupo completo; tipo=nombre busca por prefijo.
// @Tags afiliados
// @Security BearerAuth
// @Produce json
// @Param tipo query string false "numero | nombre"
// @Param q query string false "Texto o numero a buscar"
// @Param page query int false "Pagina (desde 1)"
// @Param page_size query int false "Tamano de pagina (max 200)"
// @Success 200 {object} dto.AfiliadoListResponse
// @Router /v1/afiliados [get]
func (h *AfiliadosHandler) Listar(c *gin.Context) {
	var filter dto.AfiliadoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Error al listar socios")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene un socio
// @Tags afiliados
// @Security BearerAuth
// @Produce json
// @Param numero path int true "Numero de socio"
// @Success 200 {object} dto.AfiliadoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/afiliados/{numero} [get]
func (h *AfiliadosHandler) Obtener(c *gin.Context) {
	numero, ok := numeroParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), numero)
	if err != nil {
		respondError(c, err, "Error al obtener socio")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UltimoNumero godoc
// @Summary Ultimo numero de socio asignado
// @Tags afiliados
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UltimoNumeroResponse
// @Router /v1/afiliados/ultimo-numero [get]
func (h *AfiliadosHandler) UltimoNumero(c *gin.Context) {
	resp, err := h.svc.UltimoNumero(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error al obtener el ultimo numero")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary Alta de socio
// @Description Si cuit_cli viene vacio se calcula a partir del DNI y el sexo.
// @Tags afiliados
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.AfiliadoRequest true "Socio"
// @Success 201 {object} dto.AfiliadoResponse
// @Failure 409 {object} apierror.ConflictError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/afiliados [post]
func (h *AfiliadosHandler) Crear(c *gin.Context) {
	var req dto.AfiliadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Error al crear socio")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar godoc
// @Summary Modifica un socio (puede cambiar su numero)
// @Tags afiliados
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param numero path int true "Numero actual"
// @Param body body dto.AfiliadoRequest true "Socio"
// @Success 200 {object} dto.AfiliadoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.ConflictError
// @Router /v1/afiliados/{numero} [put]
func (h *AfiliadosHandler) Actualizar(c *gin.Context) {
	numero, ok := numeroParam(c)
	if !ok {
		return
	}
	var req dto.AfiliadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), numero, req)
	if err != nil {
		respondError(c, err, "Error al actualizar socio")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Baja godoc
// @Summary Baja de un socio o de su grupo completo
// @Tags afiliados
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param numero path int true "Numero de socio"
// @Param body body dto.BajaRequest true "Datos de la baja"
// @Success 200 {object} dto.BajaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.ConflictError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/afiliados/{numero}/baja [post]
func (h *AfiliadosHandler) Baja(c *gin.Context) {
	numero, ok := numeroParam(c)
	if !ok {
		return
	}
	var req dto.BajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.bajas.DarDeBaja(c.Request.Context(), numero, req, usuarioActual(c))
	if err != nil {
		respondError(c, err, "Error al registrar la baja")
		return
	}
	c.JSON(http.StatusOK, resp)
}
