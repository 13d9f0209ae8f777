package comparison

import (
	"fmt"
	"html"
	"math"
	"sort"

	"github.com/evoting-cl/revisor-juntas/internal/models"
)

// Clasificación de cada posición comparada.
const (
	DiffNone  = "none"
	DiffSutil = "sutil"
	DiffMajor = "major"
)

// orderKey devuelve la llave de orden de una pregunta. Preguntas sin
// 'order' (o con valor no numérico en origen) se ordenan al final.
func orderKey(p models.Pregunta) float64 {
	if p.Order != nil && !math.IsNaN(*p.Order) {
		return *p.Order
	}
	return math.Inf(1)
}

// SortPreguntasByOrder devuelve una copia de las preguntas ordenada de
// forma estable por 'order' ascendente. El orden relativo original se
// conserva entre empates y entre preguntas sin orden.
func SortPreguntasByOrder(preguntas []models.Pregunta) []models.Pregunta {
	ordenadas := make([]models.Pregunta, len(preguntas))
	copy(ordenadas, preguntas)
	sort.SliceStable(ordenadas, func(i, j int) bool {
		return orderKey(ordenadas[i]) < orderKey(ordenadas[j])
	})
	return ordenadas
}

// ComparePreguntasPosicional alinea índice a índice los títulos esperados
// (en orden de autoría) contra los actuales (ya ordenados por 'order') y
// clasifica cada par: none si coinciden literalmente, sutil si solo
// coinciden normalizados, major si no coinciden de ninguna forma.
//
// Devuelve un detalle por posición hasta max(len(expected), len(actual))
// y el match global: falso si cualquier posición carece de coincidencia
// normalizada, incluyendo posiciones donde un lado no tiene título.
func ComparePreguntasPosicional(expectedTitles, actualTitles []string) ([]models.DetallePregunta, bool) {
	maxLen := len(expectedTitles)
	if len(actualTitles) > maxLen {
		maxLen = len(actualTitles)
	}

	details := make([]models.DetallePregunta, 0, maxLen)
	overallMatch := true

	for i := 0; i < maxLen; i++ {
		var exp, act *string
		if i < len(expectedTitles) {
			exp = &expectedTitles[i]
		}
		if i < len(actualTitles) {
			act = &actualTitles[i]
		}

		literalMatch := exp != nil && act != nil && *exp == *act
		normMatch := exp != nil && act != nil && NormalizeTitle(*exp) == NormalizeTitle(*act)

		diffType := DiffNone
		diffHTML := ""
		if !literalMatch {
			if normMatch {
				diffType = DiffSutil
			} else {
				diffType = DiffMajor
			}
			diffHTML = renderDiffHTML(deref(exp), deref(act))
		}

		details = append(details, models.DetallePregunta{
			Index:        i + 1,
			Expected:     exp,
			Actual:       act,
			Match:        normMatch,
			LiteralMatch: literalMatch,
			DiffType:     diffType,
			DiffHTML:     diffHTML,
		})

		if !normMatch {
			overallMatch = false
		}
	}

	return details, overallMatch
}

// renderDiffHTML produce el diff a nivel de línea (cada título es una
// línea): el título esperado marcado como eliminación y el actual como
// inserción. Las líneas de metadatos del diff se omiten.
func renderDiffHTML(expected, actual string) string {
	return fmt.Sprintf(
		`<del style="background-color: #ffcccc; text-decoration: none;">%s</del> `+
			`<ins style="background-color: #ccffcc; text-decoration: none;">%s</ins>`,
		html.EscapeString(expected), html.EscapeString(actual))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
