// Package esocios es el cliente de la API de administración de juntas.
// La autenticación es por cookies de sesión capturadas por el navegador
// (internal/browser); este cliente solo hace las llamadas HTTP y unifica
// las respuestas en una ConfigActual.
package esocios

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/evoting-cl/revisor-juntas/internal/constants"
	"github.com/evoting-cl/revisor-juntas/internal/models"
)

// Client consulta la API de la plataforma con una sesión ya autenticada.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cookies    map[string]string
}

// NewClient construye el cliente con las cookies de sesión capturadas.
func NewClient(baseURL string, cookies map[string]string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cookies:    cookies,
	}
}

// respuestaJunta es la forma cruda del endpoint de la junta.
type respuestaJunta struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`

	Company   string                  `json:"company"`
	StartDate string                  `json:"start_date"`
	Shares    map[string]models.Serie `json:"shares"`
	Zoom      *models.ZoomConfig      `json:"zoom"`
	Config    models.ConfigPlataforma `json:"config"`
}

// respuestaAccionistas es la forma cruda del listado de accionistas.
type respuestaAccionistas struct {
	Holders []models.Accionista `json:"holders"`
}

// FetchConfigActual obtiene junta, preguntas y accionistas y los unifica
// en la configuración actual que consume el comparador.
func (c *Client) FetchConfigActual(ctx context.Context, slug string) (*models.ConfigActual, error) {
	ctx, span := otel.Tracer("esocios").Start(ctx, "FetchConfigActual")
	defer span.End()

	log.Printf("Obteniendo configuración actual de la plataforma para slug: %s", slug)

	var junta respuestaJunta
	if err := c.getJSON(ctx, fmt.Sprintf("/api/meetings/%s", slug), &junta); err != nil {
		return nil, fmt.Errorf("error obteniendo la junta %s: %w", slug, err)
	}

	var preguntas []models.Pregunta
	if err := c.getJSON(ctx, fmt.Sprintf("/api/meetings/%s/questions", slug), &preguntas); err != nil {
		return nil, fmt.Errorf("error obteniendo preguntas de %s: %w", slug, err)
	}
	log.Printf("Se obtuvieron %d preguntas para %s", len(preguntas), slug)

	afpList, err := c.fetchAFPList(ctx, slug)
	if err != nil {
		// La lista de AFPs es opcional: muchas juntas no tienen
		// administradoras entre sus accionistas.
		log.Printf("No se pudo obtener la lista de accionistas de %s: %v", slug, err)
	}

	cfg := &models.ConfigActual{
		Slug:   slug,
		Fuente: "api",
		Junta: models.JuntaActual{
			Nombre: junta.Name,
			Tipo:   junta.Type,
			Estado: junta.Status,
		},
		ConfiguracionGeneral: models.ConfiguracionGeneral{
			Company:     junta.Company,
			FechaInicio: junta.StartDate,
			Shares:      junta.Shares,
			Zoom:        junta.Zoom,
			Config:      junta.Config,
		},
		Preguntas: preguntas,
		AFPList:   afpList,
	}
	return cfg, nil
}

// fetchAFPList descarga los accionistas y retiene solo los que calzan con
// una AFP conocida por RUT, más los que declaran "afp" en el nombre.
func (c *Client) fetchAFPList(ctx context.Context, slug string) ([]models.Accionista, error) {
	var resp respuestaAccionistas
	if err := c.getJSON(ctx, fmt.Sprintf("/api/meetings/%s/holders", slug), &resp); err != nil {
		return nil, err
	}

	var afps []models.Accionista
	for _, h := range resp.Holders {
		_, conocida := constants.KnownAFPIdentities[h.Identity]
		if conocida || strings.Contains(strings.ToLower(h.Name), "afp") {
			afps = append(afps, h)
		}
	}
	log.Printf("Accionistas AFP detectados en %s: %d de %d", slug, len(afps), len(resp.Holders))
	return afps, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("sesión no autorizada (%d) en %s", resp.StatusCode, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("respuesta HTTP %d en %s: %s", resp.StatusCode, path, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decodificando respuesta de %s: %w", path, err)
	}
	return nil
}
