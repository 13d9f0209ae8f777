package comparison

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/evoting-cl/revisor-juntas/internal/models"
)

// Comparator corre la comparación completa entre la configuración
// esperada (documentos) y la actual (plataforma). No guarda estado entre
// invocaciones; el roster de anfitriones es configuración inmutable, por
// lo que es seguro compartirlo entre goroutines.
type Comparator struct {
	alternativeHostRoster []string
}

// NewComparator construye un comparador con el roster base de
// anfitriones alternativos a exigir en la verificación de Zoom.
func NewComparator(alternativeHostRoster []string) *Comparator {
	roster := make([]string, len(alternativeHostRoster))
	copy(roster, alternativeHostRoster)
	return &Comparator{alternativeHostRoster: roster}
}

// CompareConfigurations compara la configuración esperada contra la
// actual y devuelve la lista de diferencias en orden de detección:
// campos de la junta, comparación posicional de preguntas, series, AFP
// y Zoom. Nunca falla por datos incompletos; las verificaciones no
// aplicables se omiten.
func (c *Comparator) CompareConfigurations(ctx context.Context, expected *models.ConfigEsperada, actual *models.ConfigActual) []models.Difference {
	_, span := otel.Tracer("comparison").Start(ctx, "CompareConfigurations")
	defer span.End()

	differences := []models.Difference{}
	log.Printf("Iniciando comparación entre configuración de documentos y datos actuales...")

	fuente := actual.Fuente
	if fuente == "" {
		fuente = "Desconocida"
	}
	log.Printf("Fuente de datos actuales: %s", fuente)

	juntaExpected := expected.Configuracion.Junta

	// Campos generales de la junta: solo se reporta cuando ambos lados
	// traen valor y difieren.
	differences = appendFieldDiff(differences, "organizacion", juntaExpected.Organizacion, actual.ConfiguracionGeneral.Company)
	differences = appendFieldDiff(differences, "nombre", juntaExpected.Nombre, actual.Junta.Nombre)
	differences = appendFieldDiff(differences, "tipo", juntaExpected.Tipo, actual.Junta.Tipo)

	// Comparación posicional de preguntas. El lado actual se reordena
	// por 'order' antes de extraer títulos; el esperado mantiene el
	// orden de autoría de los documentos.
	log.Printf("Realizando comparación posicional de preguntas...")
	ordenadas := SortPreguntasByOrder(actual.Preguntas)
	log.Printf("Ordenadas %d preguntas actuales por 'order' para comparación.", len(ordenadas))

	expectedTitles := make([]string, 0, len(expected.Configuracion.Preguntas))
	for _, p := range expected.Configuracion.Preguntas {
		expectedTitles = append(expectedTitles, p.Titulo)
	}
	actualTitles := make([]string, 0, len(ordenadas))
	for _, p := range ordenadas {
		actualTitles = append(actualTitles, p.Name)
	}

	details, overallMatch := ComparePreguntasPosicional(expectedTitles, actualTitles)
	if len(details) > 0 {
		match := overallMatch
		differences = append(differences, models.Difference{
			Section:      "preguntas",
			Field:        "comparacion_posicional",
			Type:         models.DiffPreguntasComparadas,
			Details:      details,
			OverallMatch: &match,
			Severity:     models.SeverityInfo,
		})
		log.Printf("Comparación posicional de preguntas: Coincidencia general=%v", overallMatch)
	} else {
		log.Printf("No se encontraron preguntas en ninguna fuente para comparación posicional (bloque NO añadido).")
	}

	// Validación de configuración de series.
	log.Printf("Iniciando validación de configuración de series...")
	if seriesAlerts := ValidateSeries(actual.ConfiguracionGeneral.Shares); len(seriesAlerts) > 0 {
		differences = append(differences, seriesAlerts...)
		log.Printf("Se añadieron %d alertas de validación de series.", len(seriesAlerts))
	} else {
		log.Printf("Validación de configuración de series OK.")
	}

	// Verificación de grupo AFP.
	log.Printf("Iniciando verificación de grupo AFP...")
	differences = append(differences, ValidateAFP(actual.AFPList)...)

	// Verificación de anfitriones alternativos de Zoom.
	log.Printf("Iniciando verificación de anfitriones alternativos de Zoom...")
	differences = append(differences, ValidateZoom(actual.ConfiguracionGeneral.Zoom, c.alternativeHostRoster)...)

	span.SetAttributes(attribute.Int("comparison.diff_count", len(differences)))
	log.Printf("Comparación finalizada. Diferencias informativas generadas: %d", len(differences))
	return differences
}

func appendFieldDiff(differences []models.Difference, field, expected, actual string) []models.Difference {
	if expected == "" || actual == "" || expected == actual {
		return differences
	}
	return append(differences, models.Difference{
		Section:  "junta",
		Field:    field,
		Type:     models.DiffValorDistinto,
		Expected: expected,
		Actual:   actual,
		Severity: models.SeverityWarning,
	})
}
