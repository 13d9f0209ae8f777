package handlers

import (
	"context"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/evoting-cl/revisor-juntas/internal/services"
)

// OrganizationHandler dispara el runner de creación de organizaciones.
type OrganizationHandler struct {
	organizations *services.OrganizationService
	running       atomic.Bool
}

// NewOrganizationHandler crea el handler. El servicio puede ser nil si la
// planilla no está configurada.
func NewOrganizationHandler(organizations *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{organizations: organizations}
}

// CreateOrganizations godoc
// @Summary Crea en lote las organizaciones pendientes de la planilla
// @Description Recorre la planilla de Google configurada, salta las filas con estado final y crea el resto vía automatización del formulario de la plataforma. El proceso corre en segundo plano; solo puede haber una corrida a la vez.
// @Tags organizaciones
// @Produce json
// @Success 202 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/v1/organizaciones [post]
func (h *OrganizationHandler) CreateOrganizations(c *gin.Context) {
	if h.organizations == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "La planilla de organizaciones no está configurada",
		})
		return
	}
	if !h.running.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Ya hay una corrida de creación de organizaciones en curso",
		})
		return
	}

	go func() {
		defer h.running.Store(false)
		resumen, err := h.organizations.Run(context.Background())
		if err != nil {
			log.Printf("La corrida de creación de organizaciones terminó con error: %v", err)
			return
		}
		log.Printf("Corrida de organizaciones: %d creadas, %d con error, %d omitidas.",
			resumen.Creadas, resumen.Errores, resumen.Omitidas)
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Creación de organizaciones iniciada. El avance queda registrado en la planilla.",
	})
}
