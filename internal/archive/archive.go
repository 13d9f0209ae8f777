// Package archive indexa los resúmenes de informes en Typesense para que
// el historial de revisiones sea buscable desde el dashboard.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/typesense/typesense-go/v3/typesense"
	"github.com/typesense/typesense-go/v3/typesense/api"

	"github.com/evoting-cl/revisor-juntas/internal/config"
	"github.com/evoting-cl/revisor-juntas/internal/models"
	"github.com/evoting-cl/revisor-juntas/internal/utils"
)

// Client envuelve la colección de informes en Typesense.
type Client struct {
	client     *typesense.Client
	collection string
}

// NewClient construye el cliente de archivo a partir de la configuración.
func NewClient(cfg *config.Config) *Client {
	typesenseClient := typesense.NewClient(
		typesense.WithServer(fmt.Sprintf("%s://%s:%s", cfg.TypesenseProtocol, cfg.TypesenseHost, cfg.TypesensePort)),
		typesense.WithAPIKey(cfg.TypesenseAPIKey),
	)
	return &Client{
		client:     typesenseClient,
		collection: cfg.TypesenseInformesCollection,
	}
}

// Health verifica la conectividad con Typesense.
func (c *Client) Health(ctx context.Context) bool {
	_, err := c.client.Health(ctx, 2*time.Second)
	return err == nil
}

// EnsureCollection crea la colección de informes si no existe.
func (c *Client) EnsureCollection(ctx context.Context) error {
	if _, err := c.client.Collection(c.collection).Retrieve(ctx); err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name:                c.collection,
		DefaultSortingField: stringPtr("generado_en"),
		Fields: []api.Field{
			{Name: "id", Type: "string", Optional: boolPtr(true)},
			{Name: "slug", Type: "string", Facet: boolPtr(true)},
			{Name: "nombre_junta", Type: "string", Facet: boolPtr(false)},
			{Name: "organizacion", Type: "string", Facet: boolPtr(true), Optional: boolPtr(true)},
			{Name: "filename", Type: "string", Facet: boolPtr(false)},
			{Name: "total_diffs", Type: "int32", Facet: boolPtr(false)},
			{Name: "generado_en", Type: "int64", Facet: boolPtr(false)},
			{Name: "contenido_busqueda", Type: "string", Facet: boolPtr(false)},
		},
	}

	if _, err := c.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("error creando la colección %s: %w", c.collection, err)
	}
	log.Printf("Colección de informes %s creada.", c.collection)
	return nil
}

// IndexReport sube el resumen del informe al archivo. El contenido de
// búsqueda se normaliza sin acentos para que "eleccion" encuentre
// "Elección".
func (c *Client) IndexReport(ctx context.Context, resumen models.ResumenInforme) error {
	if resumen.ID == "" {
		resumen.ID = resumen.Filename
	}
	resumen.ContenidoBusqueda = utils.QuitarAcentos(strings.Join([]string{
		resumen.Slug, resumen.NombreJunta, resumen.Organizacion,
	}, " "))

	if _, err := c.client.Collection(c.collection).Documents().Upsert(ctx, resumen, &api.DocumentIndexParameters{}); err != nil {
		return fmt.Errorf("error indexando el informe %s: %w", resumen.Filename, err)
	}
	log.Printf("Informe %s indexado en el archivo.", resumen.Filename)
	return nil
}

// DeleteReport saca un informe del archivo. Un informe que nunca se
// indexó no es error.
func (c *Client) DeleteReport(ctx context.Context, filename string) error {
	if _, err := c.client.Collection(c.collection).Document(filename).Delete(ctx); err != nil {
		if strings.Contains(err.Error(), "404") || strings.Contains(err.Error(), "Not Found") {
			return nil
		}
		return fmt.Errorf("error eliminando el informe %s del archivo: %w", filename, err)
	}
	return nil
}

// Search busca en el archivo por slug, nombre de junta u organización.
func (c *Client) Search(ctx context.Context, query string, page, perPage int) ([]models.ResumenInforme, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	q := utils.QuitarAcentos(strings.TrimSpace(query))
	if q == "" {
		q = "*"
	}
	queryBy := "contenido_busqueda,slug,nombre_junta"
	sortBy := "generado_en:desc"

	searchParams := &api.SearchCollectionParams{
		Q:       &q,
		QueryBy: &queryBy,
		SortBy:  &sortBy,
		Page:    &page,
		PerPage: &perPage,
	}

	searchResult, err := c.client.Collection(c.collection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, 0, fmt.Errorf("error buscando en el archivo de informes: %w", err)
	}

	found := 0
	if searchResult.Found != nil {
		found = *searchResult.Found
	}

	var resumenes []models.ResumenInforme
	if searchResult.Hits == nil {
		return resumenes, found, nil
	}
	for _, hit := range *searchResult.Hits {
		if hit.Document == nil {
			continue
		}
		raw, err := json.Marshal(hit.Document)
		if err != nil {
			log.Printf("Error serializando un hit del archivo: %v", err)
			continue
		}
		var resumen models.ResumenInforme
		if err := json.Unmarshal(raw, &resumen); err != nil {
			log.Printf("Error decodificando un hit del archivo: %v", err)
			continue
		}
		resumenes = append(resumenes, resumen)
	}
	return resumenes, found, nil
}

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }
