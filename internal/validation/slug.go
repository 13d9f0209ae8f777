package validation

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/evoting-cl/revisor-juntas/internal/models"
)

// Estados posibles del resultado de la validación de revisa.js.
const (
	SlugStatusOK            = "ok"
	SlugStatusMismatch      = "mismatch"
	SlugStatusNotFound      = "not_found"
	SlugStatusError         = "error"
	SlugStatusConfigMissing = "config_missing"
	SlugStatusSkipped       = "skipped"
)

// SlugResult es el resultado de comparar el meeting_id publicado en
// revisa.js contra el slug esperado de la junta.
type SlugResult struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	JSURL        string `json:"js_url,omitempty"`
	FoundID      string `json:"found_id,omitempty"`
	ExpectedSlug string `json:"expected_slug"`
}

var meetingIDRe = regexp.MustCompile(`meeting_id\s*=\s*["']([^"']+)["']`)

// SlugValidator descarga el revisa.js de la landing de una junta y
// verifica que el meeting_id embebido coincida con el slug esperado.
type SlugValidator struct {
	httpClient *http.Client
}

// NewSlugValidator construye el validador con un timeout fijo de red.
func NewSlugValidator() *SlugValidator {
	return &SlugValidator{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Validate obtiene revisa.js desde la landing configurada y compara el
// meeting_id encontrado contra expectedSlug. Nunca devuelve error: toda
// falla queda expresada en el status del resultado, para que el llamador
// pueda renderizar un informe parcial.
func (v *SlugValidator) Validate(ctx context.Context, actual *models.ConfigActual, expectedSlug string) SlugResult {
	log.Printf("Iniciando validación de slug en revisa.js para slug esperado: %s", expectedSlug)

	result := SlugResult{
		Status:       SlugStatusSkipped,
		Message:      "No se inició la validación.",
		ExpectedSlug: expectedSlug,
	}

	landingURL := ""
	if actual != nil {
		landingURL = actual.ConfiguracionGeneral.Config.LandingURL
	}
	if landingURL == "" {
		result.Status = SlugStatusConfigMissing
		result.Message = "No se encontró 'landing_url' en la configuración actual para verificar revisa.js."
		log.Printf("%s", result.Message)
		return result
	}

	if !strings.HasPrefix(landingURL, "http://") && !strings.HasPrefix(landingURL, "https://") {
		log.Printf("Prefijando 'https://' a la landing_url: %s", landingURL)
		landingURL = "https://" + landingURL
	}

	landingURL = strings.TrimSuffix(landingURL, "/")
	jsURL := landingURL + "/js/revisa.js"
	result.JSURL = jsURL
	log.Printf("Intentando obtener JS desde: %s", jsURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jsURL, nil)
	if err != nil {
		result.Status = SlugStatusError
		result.Message = fmt.Sprintf("El 'landing_url' (%s) no es una URL válida incluso después de intentar corregirla.", landingURL)
		log.Printf("%s", result.Message)
		return result
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		result.Status = SlugStatusError
		result.Message = fmt.Sprintf("Error de red al obtener %s: %v", jsURL, err)
		log.Printf("%s", result.Message)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.Status = SlugStatusError
		result.Message = fmt.Sprintf("Respuesta HTTP %d al obtener %s.", resp.StatusCode, jsURL)
		log.Printf("%s", result.Message)
		return result
	}

	if ct := strings.ToLower(resp.Header.Get("Content-Type")); !strings.Contains(ct, "javascript") {
		log.Printf("URL %s devolvió Content-Type inesperado: %s", jsURL, ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		result.Status = SlugStatusError
		result.Message = fmt.Sprintf("Error inesperado al procesar la respuesta de %s: %v", jsURL, err)
		log.Printf("%s", result.Message)
		return result
	}

	match := meetingIDRe.FindSubmatch(body)
	if match == nil {
		result.Status = SlugStatusNotFound
		result.Message = fmt.Sprintf("No se pudo encontrar la variable 'meeting_id' en %s.", jsURL)
		log.Printf("%s", result.Message)
		return result
	}

	result.FoundID = string(match[1])
	log.Printf("Meeting ID encontrado en %s: '%s'", jsURL, result.FoundID)

	if result.FoundID == expectedSlug {
		result.Status = SlugStatusOK
		result.Message = fmt.Sprintf("Coincidencia: El 'meeting_id' ('%s') en %s coincide con el slug esperado.", result.FoundID, jsURL)
	} else {
		result.Status = SlugStatusMismatch
		result.Message = fmt.Sprintf("Discrepancia: El 'meeting_id' ('%s') en %s NO coincide con el slug esperado ('%s').", result.FoundID, jsURL, expectedSlug)
	}
	log.Printf("%s", result.Message)
	return result
}
