package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/evoting-cl/revisor-juntas/internal/models"
	"github.com/evoting-cl/revisor-juntas/internal/validation"
)

// ValidationHandler expone los validadores independientes: opciones de
// preguntas y slug de revisa.js.
type ValidationHandler struct {
	slugValidator *validation.SlugValidator
}

// NewValidationHandler crea el handler de validaciones.
func NewValidationHandler() *ValidationHandler {
	return &ValidationHandler{slugValidator: validation.NewSlugValidator()}
}

// ValidateQuestions godoc
// @Summary Valida las opciones de una lista de preguntas
// @Description Revisa que cada pregunta pública no informativa ofrezca exactamente las opciones Apruebo, Rechazo y Abstención (sin distinguir mayúsculas ni orden). Las preguntas secretas, de elección de directorio o marcadas [INFORMATIVA] quedan exentas. El cuerpo debe ser una lista JSON de preguntas.
// @Tags validaciones
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/validar-preguntas [post]
func (h *ValidationHandler) ValidateQuestions(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "No se pudo leer el cuerpo de la petición",
			"details": err.Error(),
		})
		return
	}

	status, invalidas := validation.ValidateQuestionsJSON(body)
	if invalidas == nil {
		invalidas = []models.PreguntaInvalida{}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":              status,
		"preguntas_invalidas": invalidas,
	})
}

// ValidateSlug godoc
// @Summary Verifica el meeting_id publicado en revisa.js
// @Description Descarga el archivo /js/revisa.js desde la landing indicada y compara la variable meeting_id contra el slug esperado. Toda falla (landing ausente, error de red, variable no encontrada) queda expresada en el status del resultado.
// @Tags validaciones
// @Produce json
// @Param slug path string true "Slug esperado de la junta"
// @Param landing_url query string true "URL de la landing de la junta"
// @Success 200 {object} validation.SlugResult
// @Failure 400 {object} map[string]string
// @Router /api/v1/validar-slug/{slug} [get]
func (h *ValidationHandler) ValidateSlug(c *gin.Context) {
	slug := c.Param("slug")
	landingURL := strings.TrimSpace(c.Query("landing_url"))
	if landingURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "El parámetro 'landing_url' es obligatorio",
		})
		return
	}

	actual := &models.ConfigActual{}
	actual.ConfiguracionGeneral.Config.LandingURL = landingURL

	result := h.slugValidator.Validate(c.Request.Context(), actual, slug)
	c.JSON(http.StatusOK, result)
}
