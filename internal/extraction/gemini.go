// Package extraction convierte los documentos fuente de una junta (actas,
// citaciones, capturas) en la configuración esperada, usando Gemini en
// modo de respuesta JSON. Los JSON subidos directamente no pasan por el
// modelo.
package extraction

import (
	"context"
	"fmt"
	"log"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"google.golang.org/genai"

	"github.com/evoting-cl/revisor-juntas/internal/models"
)

const promptExtraccion = `Analiza los documentos adjuntos de una junta de accionistas y extrae su configuración.
Responde únicamente con un JSON con esta forma exacta:
{
  "configuracion": {
    "junta": {"organizacion": "...", "nombre": "...", "tipo": "ordinaria|extraordinaria"},
    "preguntas": [{"titulo": "..."}]
  }
}
Las preguntas deben ir en el orden en que aparecen en la tabla de votación del documento.
Si un campo no aparece en los documentos, omítelo.`

// Documento es un archivo subido listo para enviar al modelo.
type Documento struct {
	Nombre    string
	Contenido []byte
}

// Extractor encapsula las operaciones de extracción con la API de Gemini.
type Extractor struct {
	client *genai.Client
	model  string
}

// NewExtractor crea el extractor. El cliente puede ser nil si la clave no
// está configurada; en ese caso toda extracción falla con error claro.
func NewExtractor(client *genai.Client, model string) *Extractor {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Extractor{client: client, model: model}
}

// IsAvailable indica si el cliente está inicializado.
func (e *Extractor) IsAvailable() bool {
	return e.client != nil
}

// ExtractConfigEsperada envía los documentos al modelo y decodifica la
// configuración esperada de la respuesta JSON.
func (e *Extractor) ExtractConfigEsperada(ctx context.Context, docs []Documento) (*models.ConfigEsperada, error) {
	ctx, span := otel.Tracer("extraction").Start(ctx, "ExtractConfigEsperada")
	defer span.End()

	if e.client == nil {
		return nil, fmt.Errorf("cliente Gemini no inicializado")
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no se proporcionaron documentos para extraer")
	}

	parts := []*genai.Part{genai.NewPartFromText(promptExtraccion)}
	for _, doc := range docs {
		mimeType := tipoMIME(doc.Nombre)
		log.Printf("Adjuntando documento %s (%s, %d bytes) a la extracción", doc.Nombre, mimeType, len(doc.Contenido))
		if strings.HasPrefix(mimeType, "text/") {
			parts = append(parts, genai.NewPartFromText(string(doc.Contenido)))
			continue
		}
		parts = append(parts, genai.NewPartFromBytes(doc.Contenido, mimeType))
	}

	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	generateConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, generateConfig)
	if err != nil {
		return nil, fmt.Errorf("error en la extracción con Gemini: %w", err)
	}

	texto := resp.Text()
	if texto == "" {
		return nil, fmt.Errorf("Gemini no devolvió contenido")
	}

	cfg, err := models.ParseConfigEsperada([]byte(texto))
	if err != nil {
		return nil, fmt.Errorf("la respuesta de Gemini no es una configuración válida: %w", err)
	}
	log.Printf("Extracción completada: %d preguntas detectadas en los documentos.", len(cfg.Configuracion.Preguntas))
	return cfg, nil
}

func tipoMIME(nombre string) string {
	ext := strings.ToLower(filepath.Ext(nombre))
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "text/plain"
	}
}
