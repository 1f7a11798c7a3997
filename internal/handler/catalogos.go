package handler

import (
	"net/http"

	"afiliados/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogosHandler struct{ svc service.CatalogoService }

func NewCatalogosHandler(svc service.CatalogoService) *CatalogosHandler {
	return &CatalogosHandler{svc: svc}
}

// Planes godoc
// @Summary Planes ordenados por nombre
// @Tags catalogos
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.PlanResponse
// @Router /v1/catalogos/planes [get]
func (h *CatalogosHandler) Planes(c *gin.Context) {
	resp, err := h.svc.ListarPlanes(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error al listar planes")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Zonas godoc
// @Summary Zonas ordenadas por nombre
// @Tags catalogos
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ZonaResponse
// @Router /v1/catalogos/zonas [get]
func (h *CatalogosHandler) Zonas(c *gin.Context) {
	resp, err := h.svc.ListarZonas(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error al listar zonas")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Invalidar godoc
// @Summary Vacia la cache de catalogos
// @Tags catalogos
// @Security BearerAuth
// @Success 204
// @Router /v1/catalogos/cache [delete]
func (h *CatalogosHandler) Invalidar(c *gin.Context) {
	if err := h.svc.Invalidar(c.Request.Context()); err != nil {
		respondError(c, err, "Error al invalidar la cache")
		return
	}
	c.Status(http.StatusNoContent)
}
