package comparison

import (
	"strings"
	"testing"

	"github.com/evoting-cl/revisor-juntas/internal/models"
)

func orderPtr(v float64) *float64 { return &v }

func TestSortPreguntasByOrder(t *testing.T) {
	t.Run("Ordena por order ascendente", func(t *testing.T) {
		preguntas := []models.Pregunta{
			{Name: "B", Order: orderPtr(2)},
			{Name: "A", Order: orderPtr(1)},
			{Name: "C", Order: orderPtr(3)},
		}
		ordenadas := SortPreguntasByOrder(preguntas)
		got := []string{ordenadas[0].Name, ordenadas[1].Name, ordenadas[2].Name}
		want := []string{"A", "B", "C"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("orden incorrecto: %v, se esperaba %v", got, want)
			}
		}
	})

	t.Run("Sin order va al final y es estable", func(t *testing.T) {
		preguntas := []models.Pregunta{
			{Name: "SinOrden1"},
			{Name: "Primera", Order: orderPtr(1)},
			{Name: "SinOrden2"},
		}
		ordenadas := SortPreguntasByOrder(preguntas)
		if ordenadas[0].Name != "Primera" {
			t.Errorf("la pregunta con order debe ir primero, quedó %q", ordenadas[0].Name)
		}
		if ordenadas[1].Name != "SinOrden1" || ordenadas[2].Name != "SinOrden2" {
			t.Errorf("el orden relativo de las preguntas sin order debe conservarse: %q, %q",
				ordenadas[1].Name, ordenadas[2].Name)
		}
	})

	t.Run("No muta la lista original", func(t *testing.T) {
		preguntas := []models.Pregunta{
			{Name: "B", Order: orderPtr(2)},
			{Name: "A", Order: orderPtr(1)},
		}
		SortPreguntasByOrder(preguntas)
		if preguntas[0].Name != "B" {
			t.Errorf("la lista original fue mutada")
		}
	})
}

func TestComparePreguntasPosicional(t *testing.T) {
	t.Run("Largo del detalle es el máximo de ambas listas", func(t *testing.T) {
		cases := []struct {
			expected []string
			actual   []string
			wantLen  int
		}{
			{[]string{"A", "B", "C"}, []string{"A"}, 3},
			{[]string{"A"}, []string{"A", "B", "C", "D"}, 4},
			{[]string{"A", "B"}, []string{"A", "B"}, 2},
			{nil, []string{"A"}, 1},
		}
		for _, tc := range cases {
			details, _ := ComparePreguntasPosicional(tc.expected, tc.actual)
			if len(details) != tc.wantLen {
				t.Errorf("len(details) = %d para %v vs %v; se esperaba %d",
					len(details), tc.expected, tc.actual, tc.wantLen)
			}
		}
	})

	t.Run("Ambas listas vacías no producen detalle", func(t *testing.T) {
		details, overall := ComparePreguntasPosicional(nil, nil)
		if len(details) != 0 {
			t.Errorf("se esperaban 0 detalles, hay %d", len(details))
		}
		if !overall {
			t.Errorf("sin posiciones que comparar el match global queda en verdadero")
		}
	})

	t.Run("Coincidencia literal", func(t *testing.T) {
		details, overall := ComparePreguntasPosicional([]string{"Apruebo"}, []string{"Apruebo"})
		d := details[0]
		if !d.LiteralMatch || !d.Match || d.DiffType != DiffNone || d.DiffHTML != "" {
			t.Errorf("coincidencia literal mal clasificada: %+v", d)
		}
		if !overall {
			t.Errorf("overall debía ser verdadero")
		}
	})

	t.Run("Diferencia sutil cuando solo coincide normalizado", func(t *testing.T) {
		details, overall := ComparePreguntasPosicional(
			[]string{"1. Aprobación de la Memoria"},
			[]string{"Aprobación de la memoria"},
		)
		d := details[0]
		if d.LiteralMatch {
			t.Errorf("no hay coincidencia literal entre los títulos")
		}
		if !d.Match || d.DiffType != DiffSutil {
			t.Errorf("se esperaba diff_type sutil, quedó %q (match=%v)", d.DiffType, d.Match)
		}
		if !strings.Contains(d.DiffHTML, "<del") || !strings.Contains(d.DiffHTML, "<ins") {
			t.Errorf("el diff HTML debe marcar eliminación e inserción: %q", d.DiffHTML)
		}
		if !overall {
			t.Errorf("una diferencia sutil no rompe el match global")
		}
	})

	t.Run("Diferencia mayor", func(t *testing.T) {
		details, overall := ComparePreguntasPosicional(
			[]string{"Aprobación de la Memoria"},
			[]string{"Designación de Auditores"},
		)
		d := details[0]
		if d.Match || d.DiffType != DiffMajor {
			t.Errorf("se esperaba diff_type major, quedó %q (match=%v)", d.DiffType, d.Match)
		}
		if overall {
			t.Errorf("una diferencia mayor rompe el match global")
		}
	})

	t.Run("Posición faltante cuenta como no coincidencia", func(t *testing.T) {
		details, overall := ComparePreguntasPosicional([]string{"A", "B"}, []string{"A"})
		if overall {
			t.Errorf("con una posición sin título actual el match global es falso")
		}
		d := details[1]
		if d.Match || d.Actual != nil || d.DiffType != DiffMajor {
			t.Errorf("posición faltante mal clasificada: %+v", d)
		}
	})

	t.Run("Índices parten en 1", func(t *testing.T) {
		details, _ := ComparePreguntasPosicional([]string{"A", "B"}, []string{"A", "B"})
		if details[0].Index != 1 || details[1].Index != 2 {
			t.Errorf("índices incorrectos: %d, %d", details[0].Index, details[1].Index)
		}
	})
}

// El ordenamiento por 'order' debe correr antes de la alineación: títulos
// invertidos en la lista cruda coinciden posición a posición después de
// ordenar.
func TestComparacionSensibleAlOrden(t *testing.T) {
	preguntas := []models.Pregunta{
		{Name: "B", Order: orderPtr(2)},
		{Name: "A", Order: orderPtr(1)},
	}
	ordenadas := SortPreguntasByOrder(preguntas)
	titulos := []string{ordenadas[0].Name, ordenadas[1].Name}

	details, overall := ComparePreguntasPosicional([]string{"A", "B"}, titulos)
	if !overall {
		t.Fatalf("después de ordenar por 'order' ambas posiciones deben coincidir: %+v", details)
	}
	for _, d := range details {
		if !d.Match {
			t.Errorf("posición %d sin coincidencia: %+v", d.Index, d)
		}
	}
}
