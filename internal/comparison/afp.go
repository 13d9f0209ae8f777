package comparison

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/evoting-cl/revisor-juntas/internal/models"
)

// GrupoVacioSentinel marca registros cuyo campo de grupo viene vacío o
// nulo, para que cuenten como un valor de grupo propio en la evaluación.
const GrupoVacioSentinel = "[GRUPO VACÍO/NULO]"

// ValidateAFP verifica que todos los accionistas marcados como AFP
// compartan exactamente un grupo no vacío y que sus nombres contengan
// "afp". Con lista vacía no hay nada que verificar y no se emite nada.
//
// El escaneo es un fold puro sobre la lista: el resultado no depende del
// orden de los registros.
func ValidateAFP(afpList []models.Accionista) []models.Difference {
	var differences []models.Difference

	if len(afpList) == 0 {
		log.Printf("No se encontró lista de AFPs (afp_list) o la llamada falló. Omitiendo verificación de grupo AFP.")
		return differences
	}

	grupos := make(map[string]struct{})
	var nombresInconsistentes []string
	for _, afp := range afpList {
		if !strings.Contains(strings.ToLower(afp.Name), "afp") {
			identity := afp.Identity
			if identity == "" {
				identity = "N/A"
			}
			nombresInconsistentes = append(nombresInconsistentes, fmt.Sprintf("%s (%s)", afp.Name, identity))
		}

		if afp.Group != "" {
			grupos[afp.Group] = struct{}{}
		} else {
			grupos[GrupoVacioSentinel] = struct{}{}
		}
	}

	if len(nombresInconsistentes) > 0 {
		sort.Strings(nombresInconsistentes)
		differences = append(differences, models.Difference{
			Section:    "afp",
			Identifier: "Consistencia Nombres",
			Field:      "nombre",
			Type:       models.DiffAFPNombreInconsistente,
			Expected:   "Contener 'AFP'",
			Actual:     fmt.Sprintf("Nombres sin 'AFP': %s", strings.Join(nombresInconsistentes, ", ")),
			Severity:   models.SeverityWarning,
		})
	}

	gruposValidos := 0
	for g := range grupos {
		if g != GrupoVacioSentinel {
			gruposValidos++
		}
	}
	_, tieneVacio := grupos[GrupoVacioSentinel]

	switch {
	case len(grupos) == 0:
		// No debería ocurrir con lista no vacía, pero se cubre igual.
		differences = append(differences, models.Difference{
			Section:    "afp",
			Identifier: "Agrupación",
			Field:      "grupo",
			Type:       models.DiffAFPSinGrupo,
			Expected:   "Un grupo único definido",
			Actual:     "Ningún grupo encontrado",
			Severity:   models.SeverityDanger,
		})
	case tieneVacio && gruposValidos == 0:
		differences = append(differences, models.Difference{
			Section:    "afp",
			Identifier: "Agrupación",
			Field:      "grupo",
			Type:       models.DiffAFPGrupoVacio,
			Expected:   "Un grupo único definido",
			Actual:     "Grupo vacío/nulo para todas",
			Severity:   models.SeverityDanger,
		})
	case len(grupos) > 1:
		encontrados := make([]string, 0, len(grupos))
		for g := range grupos {
			encontrados = append(encontrados, g)
		}
		sort.Strings(encontrados)
		differences = append(differences, models.Difference{
			Section:    "afp",
			Identifier: "Agrupación",
			Field:      "grupo",
			Type:       models.DiffAFPMultiplesGrupos,
			Expected:   "Un grupo único",
			Actual:     fmt.Sprintf("Grupos encontrados: %v", encontrados),
			Severity:   models.SeverityDanger,
		})
	default:
		var unico string
		for g := range grupos {
			unico = g
		}
		log.Printf("Verificación AFP OK: Todas las AFPs pertenecen al grupo único: '%s'", unico)
	}

	return differences
}
