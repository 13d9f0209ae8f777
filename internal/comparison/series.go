package comparison

import (
	"fmt"
	"log"
	"sort"

	"github.com/evoting-cl/revisor-juntas/internal/models"
)

// Etiquetas de los checks tal como aparecen en la plataforma.
const (
	checkAsistencia   = "Suma a la asistencia"
	checkResumen      = "Se muestra en resumen de usuario"
	checkEnAsistencia = "Se muestra en la asistencia"
)

// ValidateSeries revisa que, cuando existen múltiples series de acciones,
// todas tengan los tres checks de participación activos. Con una sola
// serie (o ninguna) la validación se omite: no hay requisito de
// consistencia cruzada que verificar.
func ValidateSeries(shares map[string]models.Serie) []models.Difference {
	var alerts []models.Difference

	if len(shares) < 2 {
		log.Printf("Validación de checks de múltiples series omitida (solo hay una serie o ninguna).")
		return alerts
	}

	// Orden determinista por llave: el origen es un mapa.
	keys := make([]string, 0, len(shares))
	for k := range shares {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	log.Printf("Validando configuración de checks para %d series.", len(shares))
	for _, k := range keys {
		serie := shares[k]
		name := serie.Name
		if name == "" {
			name = "Desconocida"
		}

		if serie.Attendance && serie.ShowOnHeader && serie.ShowOnAttendance {
			continue
		}

		checkStatus := map[string]bool{
			checkAsistencia:   serie.Attendance,
			checkResumen:      serie.ShowOnHeader,
			checkEnAsistencia: serie.ShowOnAttendance,
		}
		missing := 0
		for _, ok := range checkStatus {
			if !ok {
				missing++
			}
		}

		alerts = append(alerts, models.Difference{
			Section:    "configuracion",
			Field:      "series",
			Identifier: fmt.Sprintf("Serie '%s'", name),
			Type:       models.DiffChecksMultiplesSeries,
			Expected:   "Todos los checks requeridos activos",
			Actual:     fmt.Sprintf("Checks desactivados: %d", missing),
			Details:    map[string]interface{}{"check_status": checkStatus},
			Severity:   models.SeverityWarning,
			Message:    fmt.Sprintf("Alerta: La serie '%s' tiene checks desactivados, pero existen múltiples series.", name),
		})
		log.Printf("Validación fallida para serie '%s': Estado checks: %v", name, checkStatus)
	}

	return alerts
}
