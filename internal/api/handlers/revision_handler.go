package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/evoting-cl/revisor-juntas/internal/config"
	"github.com/evoting-cl/revisor-juntas/internal/extraction"
	"github.com/evoting-cl/revisor-juntas/internal/services"
	"github.com/evoting-cl/revisor-juntas/internal/utils"
)

var validate = validator.New()

// startRevisionForm son los campos del formulario multipart de inicio.
// El slug es el identificador de la junta en la URL de la plataforma:
// minúsculas, dígitos y guiones.
type startRevisionForm struct {
	Slug string `validate:"required,lowercase"`
}

// RevisionHandler gestiona el inicio y consulta de revisiones.
type RevisionHandler struct {
	cfg          *config.Config
	verification *services.VerificationService
}

// NewRevisionHandler crea el handler de revisiones.
func NewRevisionHandler(cfg *config.Config, verification *services.VerificationService) *RevisionHandler {
	return &RevisionHandler{cfg: cfg, verification: verification}
}

// StartRevision godoc
// @Summary Inicia una revisión combinada de una junta
// @Description Lanza en paralelo la obtención de la configuración actual desde la plataforma y el procesamiento de los documentos subidos. Un único archivo JSON se usa directamente como configuración esperada; cualquier otro conjunto de archivos pasa por el extractor de documentos. Devuelve un task_id para consultar el avance.
// @Tags revisiones
// @Accept multipart/form-data
// @Produce json
// @Param slug formData string true "Slug de la junta en la plataforma"
// @Param files formData file true "Documentos de la junta (pdf, png, jpg, jpeg, txt o json)"
// @Success 202 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /api/v1/revisiones [post]
func (h *RevisionHandler) StartRevision(c *gin.Context) {
	slug := strings.TrimSpace(c.PostForm("slug"))
	if err := validate.Struct(startRevisionForm{Slug: slug}); err != nil || strings.ContainsAny(slug, "/\\ ") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "El campo 'slug' es obligatorio, en minúsculas y sin espacios ni barras",
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Formulario multipart inválido",
			"details": err.Error(),
		})
		return
	}

	archivos := form.File["files"]
	if len(archivos) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Se requiere al menos un archivo en el campo 'files'",
		})
		return
	}

	docs := make([]extraction.Documento, 0, len(archivos))
	for _, archivo := range archivos {
		nombre := utils.SanitizeFilename(archivo.Filename)
		if !utils.AllowedFile(nombre, h.cfg.AllowedExtensions) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Tipo de archivo no permitido: %s", nombre),
			})
			return
		}

		f, err := archivo.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   fmt.Sprintf("No se pudo leer el archivo %s", nombre),
				"details": err.Error(),
			})
			return
		}
		contenido, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   fmt.Sprintf("Error leyendo el contenido de %s", nombre),
				"details": err.Error(),
			})
			return
		}
		docs = append(docs, extraction.Documento{Nombre: nombre, Contenido: contenido})
	}

	taskID := h.verification.StartRevision(slug, docs)
	c.JSON(http.StatusAccepted, gin.H{
		"task_id": taskID,
		"message": "Revisión iniciada",
	})
}

// GetRevision godoc
// @Summary Consulta el estado de una revisión
// @Description Devuelve el estado combinado de la tarea: etapa de plataforma, etapa de documentos y comparación. El estado de una tarea terminada queda disponible por 10 minutos.
// @Tags revisiones
// @Produce json
// @Param task_id path string true "Identificador de la tarea"
// @Success 200 {object} models.RevisionTask
// @Failure 404 {object} map[string]string
// @Router /api/v1/revisiones/{task_id} [get]
func (h *RevisionHandler) GetRevision(c *gin.Context) {
	taskID := c.Param("task_id")

	task, ok := h.verification.GetTask(taskID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Tarea no encontrada o expirada",
		})
		return
	}
	c.JSON(http.StatusOK, task)
}
