package handlers

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/evoting-cl/revisor-juntas/internal/archive"
	"github.com/evoting-cl/revisor-juntas/internal/models"
	"github.com/evoting-cl/revisor-juntas/internal/services"
)

// InformesHandler gestiona el historial de informes generados.
type InformesHandler struct {
	reports *services.ReportService
	archive *archive.Client
}

// NewInformesHandler crea el handler de informes. El cliente de archivo
// puede ser nil; en ese caso la búsqueda responde 503.
func NewInformesHandler(reports *services.ReportService, archiveClient *archive.Client) *InformesHandler {
	return &InformesHandler{reports: reports, archive: archiveClient}
}

// ListInformes godoc
// @Summary Lista los informes guardados
// @Description Devuelve los nombres de archivo de todos los informes en disco, ordenados del más reciente al más antiguo.
// @Tags informes
// @Produce json
// @Success 200 {object} map[string][]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/informes [get]
func (h *InformesHandler) ListInformes(c *gin.Context) {
	nombres, err := h.reports.ListReports()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error listando los informes",
			"details": err.Error(),
		})
		return
	}
	if nombres == nil {
		nombres = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"informes": nombres})
}

// GetInforme godoc
// @Summary Obtiene un informe por nombre de archivo
// @Tags informes
// @Produce json
// @Param filename path string true "Nombre de archivo del informe"
// @Success 200 {object} models.InformeFinal
// @Failure 404 {object} map[string]string
// @Router /api/v1/informes/{filename} [get]
func (h *InformesHandler) GetInforme(c *gin.Context) {
	filename := c.Param("filename")

	informe, err := h.reports.LoadReport(filename)
	if err != nil {
		status := http.StatusInternalServerError
		if os.IsNotExist(err) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error":   "No se pudo cargar el informe",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, informe)
}

// GetInformeHTML godoc
// @Summary Render HTML del resumen de un informe
// @Description Convierte el resumen de diferencias del informe a HTML para revisión rápida en el navegador.
// @Tags informes
// @Produce html
// @Param filename path string true "Nombre de archivo del informe"
// @Success 200 {string} string "HTML del resumen"
// @Failure 404 {object} map[string]string
// @Router /api/v1/informes/{filename}/html [get]
func (h *InformesHandler) GetInformeHTML(c *gin.Context) {
	filename := c.Param("filename")

	html, err := h.reports.RenderHTML(filename)
	if err != nil {
		status := http.StatusInternalServerError
		if os.IsNotExist(err) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error":   "No se pudo renderizar el informe",
			"details": err.Error(),
		})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// DeleteInforme godoc
// @Summary Elimina un informe
// @Description Borra el informe del disco y lo saca del índice de búsqueda.
// @Tags informes
// @Produce json
// @Param filename path string true "Nombre de archivo del informe"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/informes/{filename} [delete]
func (h *InformesHandler) DeleteInforme(c *gin.Context) {
	filename := c.Param("filename")

	if err := h.reports.DeleteReport(c.Request.Context(), filename); err != nil {
		status := http.StatusInternalServerError
		if os.IsNotExist(err) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error":   "No se pudo eliminar el informe",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Informe eliminado"})
}

// SearchInformes godoc
// @Summary Busca en el historial de informes
// @Description Busca por slug, nombre de junta u organización en el índice del archivo. La búsqueda ignora tildes.
// @Tags informes
// @Produce json
// @Param q query string false "Texto de búsqueda (vacío devuelve todo)"
// @Param page query int false "Número de página (mínimo: 1)" default(1)
// @Param per_page query int false "Resultados por página (máximo: 100)" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/v1/informes-buscar [get]
func (h *InformesHandler) SearchInformes(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "El archivo de informes no está configurado",
		})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	resumenes, found, err := h.archive.Search(c.Request.Context(), c.Query("q"), page, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error buscando en el archivo de informes",
			"details": err.Error(),
		})
		return
	}
	if resumenes == nil {
		resumenes = []models.ResumenInforme{}
	}
	c.JSON(http.StatusOK, gin.H{
		"found":    found,
		"page":     page,
		"informes": resumenes,
	})
}
