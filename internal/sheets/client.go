// Package sheets lee y actualiza la planilla de Google que alimenta el
// runner de creación de organizaciones.
package sheets

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Encabezados esperados en la hoja de slugs.
const (
	ColumnaSlug          = "Slug"
	ColumnaNombreOrg     = "Nombre Organización"
	ColumnaPadre         = "Organización padre"
	ColumnaEstadoFinal   = "Estado Final"
	ColumnaEstadoProceso = "Estado Procesamiento"
	IndiceEstadoFinal    = 4 // columna D, 1-indexada
	IndiceEstadoProceso  = 5 // columna E, 1-indexada
)

var spreadsheetIDRe = regexp.MustCompile(`/spreadsheets/d/([A-Za-z0-9_-]+)`)

// Fila es una fila de datos de la hoja, indexada por encabezado.
type Fila struct {
	Numero int // número de fila en la hoja (1-indexado, los datos parten en 2)
	Datos  map[string]string
}

// Client envuelve el servicio de Sheets para una planilla fija.
type Client struct {
	service       *sheetsapi.Service
	spreadsheetID string
	sheetName     string
}

// NewClient crea el cliente con credenciales de cuenta de servicio. El
// identificador puede ser el ID directo o la URL completa de la planilla.
func NewClient(ctx context.Context, credentialsFile, spreadsheetIDOrURL, sheetName string) (*Client, error) {
	if spreadsheetIDOrURL == "" {
		return nil, fmt.Errorf("SPREADSHEET_URL_OR_ID no está configurado")
	}
	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("error inicializando el servicio de Sheets: %w", err)
	}
	return &Client{
		service:       service,
		spreadsheetID: extraerID(spreadsheetIDOrURL),
		sheetName:     sheetName,
	}, nil
}

// ReadRows lee todas las filas de datos, usando la primera fila como
// encabezados.
func (c *Client) ReadRows(ctx context.Context) ([]Fila, error) {
	log.Printf("Leyendo datos desde Google Sheet ID: %s, Hoja: %s", c.spreadsheetID, c.sheetName)

	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, c.sheetName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("error leyendo la hoja %s: %w", c.sheetName, err)
	}
	if len(resp.Values) < 2 {
		return nil, nil
	}

	encabezados := make([]string, 0, len(resp.Values[0]))
	for _, celda := range resp.Values[0] {
		encabezados = append(encabezados, strings.TrimSpace(fmt.Sprint(celda)))
	}

	filas := make([]Fila, 0, len(resp.Values)-1)
	for i, valores := range resp.Values[1:] {
		datos := make(map[string]string, len(encabezados))
		for j, encabezado := range encabezados {
			if j < len(valores) {
				datos[encabezado] = strings.TrimSpace(fmt.Sprint(valores[j]))
			} else {
				datos[encabezado] = ""
			}
		}
		filas = append(filas, Fila{Numero: i + 2, Datos: datos})
	}
	log.Printf("Se encontraron %d filas de datos en el Google Sheet.", len(filas))
	return filas, nil
}

// UpdateCell escribe un valor en la celda (fila, columna), ambas
// 1-indexadas.
func (c *Client) UpdateCell(ctx context.Context, row, col int, value string) error {
	rango := fmt.Sprintf("%s!%s%d", c.sheetName, letraColumna(col), row)
	valueRange := &sheetsapi.ValueRange{Values: [][]interface{}{{value}}}

	_, err := c.service.Spreadsheets.Values.
		Update(c.spreadsheetID, rango, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("error actualizando la celda %s: %w", rango, err)
	}
	return nil
}

func extraerID(idOrURL string) string {
	if match := spreadsheetIDRe.FindStringSubmatch(idOrURL); match != nil {
		return match[1]
	}
	return idOrURL
}

func letraColumna(col int) string {
	letras := ""
	for col > 0 {
		col--
		letras = string(rune('A'+col%26)) + letras
		col /= 26
	}
	return letras
}
