package comparison

import (
	"context"
	"log"

	"github.com/evoting-cl/revisor-juntas/internal/models"
)

// GenerateReportData corre la comparación y arma el payload para la capa
// de render: conteo total, conteos por sección y la lista detallada.
//
// La sección 'preguntas' se cuenta distinto al resto: en vez de contar el
// bloque agregado, cuenta las posiciones sin coincidencia normalizada.
// Las secciones 'junta' y 'afp' siempre aparecen en el mapa, aunque sea
// con cero diferencias.
func (c *Comparator) GenerateReportData(ctx context.Context, expected *models.ConfigEsperada, actual *models.ConfigActual) *models.ComparisonReport {
	detailed := c.CompareConfigurations(ctx, expected, actual)

	counts := map[string]int{}

	preguntasDiffCount := 0
	for _, diff := range detailed {
		if diff.Section == "preguntas" && diff.Type == models.DiffPreguntasComparadas {
			if diff.OverallMatch != nil && !*diff.OverallMatch {
				if details, ok := diff.Details.([]models.DetallePregunta); ok {
					for _, d := range details {
						if !d.Match {
							preguntasDiffCount++
						}
					}
				}
			}
			break
		}
	}
	counts["preguntas"] = preguntasDiffCount

	for _, diff := range detailed {
		if diff.Section != "" && diff.Section != "preguntas" {
			counts[diff.Section]++
		}
	}

	for _, section := range []string{"junta", "afp"} {
		if _, ok := counts[section]; !ok {
			counts[section] = 0
		}
	}

	log.Printf("Datos de comparación generados. Total Diferencias: %d. Por sección: %v", len(detailed), counts)

	return &models.ComparisonReport{
		TotalDiffCount:      len(detailed),
		DiffCountsBySection: counts,
		DetailedDifferences: detailed,
	}
}
