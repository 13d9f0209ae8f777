package comparison

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/evoting-cl/revisor-juntas/internal/models"
)

// ValidateZoom verifica que el roster base de anfitriones alternativos,
// menos quien figura como anfitrión principal, esté completo en la
// configuración de Zoom de la junta. El roster llega inyectado por el
// llamador; no existe estado global.
//
// Sin configuración de Zoom o sin host_email no se puede determinar la
// lista esperada: se registra en el log y no se emite diferencia.
func ValidateZoom(zoom *models.ZoomConfig, baseRoster []string) []models.Difference {
	var differences []models.Difference

	if zoom == nil {
		log.Printf("No se encontró configuración de Zoom ('configuracion_general.zoom') en los datos actuales. Omitiendo verificación.")
		return differences
	}
	if zoom.HostEmail == "" {
		log.Printf("No se encontró 'host_email' en la configuración de Zoom. No se puede determinar la lista final esperada de alternativos.")
		return differences
	}

	hostLower := strings.ToLower(zoom.HostEmail)

	expected := make(map[string]struct{}, len(baseRoster))
	for _, h := range baseRoster {
		if lower := strings.ToLower(h); lower != hostLower {
			expected[lower] = struct{}{}
		}
	}

	actual := make(map[string]struct{}, len(zoom.AlternativeHosts))
	for _, h := range zoom.AlternativeHosts {
		if h.Email != "" {
			actual[strings.ToLower(h.Email)] = struct{}{}
		}
	}

	var missing []string
	for e := range expected {
		if _, ok := actual[e]; !ok {
			missing = append(missing, e)
		}
	}

	if len(missing) == 0 {
		log.Printf("Verificación de anfitriones alternativos de Zoom OK. Todos los esperados (excluyendo host) están presentes.")
		return differences
	}

	sort.Strings(missing)
	expectedList := setToSortedSlice(expected)
	actualList := setToSortedSlice(actual)

	log.Printf("Anfitriones alternativos faltantes en Zoom: %v", missing)
	differences = append(differences, models.Difference{
		Section:  "zoom",
		Field:    "alternative_hosts",
		Type:     models.DiffFaltanAnfitriones,
		Expected: fmt.Sprintf("Esperados (excluyendo host %s): %v", zoom.HostEmail, expectedList),
		Actual:   fmt.Sprintf("Actuales: %v", actualList),
		Details:  map[string]interface{}{"faltantes": missing},
		Severity: models.SeverityWarning,
	})

	return differences
}

func setToSortedSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
