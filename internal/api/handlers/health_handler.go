package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evoting-cl/revisor-juntas/internal/archive"
	"github.com/evoting-cl/revisor-juntas/internal/extraction"
)

// HealthHandler gestiona los endpoints de health check.
type HealthHandler struct {
	archive   *archive.Client
	extractor *extraction.Extractor
}

// NewHealthHandler crea el handler de health check. Ambos colaboradores
// pueden ser nil cuando su servicio no está configurado.
func NewHealthHandler(archiveClient *archive.Client, extractor *extraction.Extractor) *HealthHandler {
	return &HealthHandler{archive: archiveClient, extractor: extractor}
}

// HealthResponse representa la respuesta del health check.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Error     string            `json:"error,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// Liveness godoc
// @Summary Liveness probe
// @Description Confirma que la aplicación está viva, sin chequear dependencias externas.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /liveness [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().Unix(),
	})
}

// Readiness godoc
// @Summary Readiness probe
// @Description Verifica que la aplicación puede recibir tráfico. El archivo de informes se chequea solo si está configurado; las revisiones funcionan sin él.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readiness [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "ready",
		Checks:    make(map[string]string),
		Timestamp: time.Now().Unix(),
	}

	if h.archive != nil {
		if h.archive.Health(ctx) {
			response.Checks["typesense"] = "ok"
		} else {
			response.Checks["typesense"] = "failed"
			response.Status = "not_ready"
			response.Error = "Typesense no disponible"
		}
	} else {
		response.Checks["typesense"] = "disabled"
	}

	statusCode := http.StatusOK
	if response.Status == "not_ready" {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}

// Health godoc
// @Summary Health check completo
// @Description Verifica la salud completa de la aplicación para monitoreo externo: archivo de informes y disponibilidad del extractor de documentos.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Checks:    make(map[string]string),
		Timestamp: time.Now().Unix(),
	}

	if h.archive != nil {
		if h.archive.Health(ctx) {
			response.Checks["typesense"] = "ok"
		} else {
			response.Checks["typesense"] = "failed"
			response.Status = "unhealthy"
			response.Error = "Falló el chequeo de conectividad con Typesense"
		}
	} else {
		response.Checks["typesense"] = "disabled"
	}

	if h.extractor != nil && h.extractor.IsAvailable() {
		response.Checks["gemini"] = "ok"
	} else {
		response.Checks["gemini"] = "disabled"
	}

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}
