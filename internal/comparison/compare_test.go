package comparison

import (
	"context"
	"testing"

	"github.com/evoting-cl/revisor-juntas/internal/models"
)

func configEsperada(org, nombre, tipo string, titulos ...string) *models.ConfigEsperada {
	preguntas := make([]models.PreguntaEsperada, 0, len(titulos))
	for _, t := range titulos {
		preguntas = append(preguntas, models.PreguntaEsperada{Titulo: t})
	}
	return &models.ConfigEsperada{
		Configuracion: models.ConfiguracionDocs{
			Junta:     models.JuntaEsperada{Organizacion: org, Nombre: nombre, Tipo: tipo},
			Preguntas: preguntas,
		},
	}
}

func configActualBasica() *models.ConfigActual {
	return &models.ConfigActual{
		Junta: models.JuntaActual{Nombre: "Junta Ordinaria 2025", Tipo: "ordinaria"},
		ConfiguracionGeneral: models.ConfiguracionGeneral{
			Company: "Empresa SpA",
		},
	}
}

func TestCompareConfigurationsCamposJunta(t *testing.T) {
	comparator := NewComparator(rosterPrueba)
	ctx := context.Background()

	t.Run("Valores iguales no generan diferencia", func(t *testing.T) {
		expected := configEsperada("Empresa SpA", "Junta Ordinaria 2025", "ordinaria")
		diffs := comparator.CompareConfigurations(ctx, expected, configActualBasica())
		if len(diffs) != 0 {
			t.Errorf("no debía haber diferencias: %+v", diffs)
		}
	})

	t.Run("Campo vacío en un lado se omite", func(t *testing.T) {
		expected := configEsperada("", "Junta Ordinaria 2025", "")
		diffs := comparator.CompareConfigurations(ctx, expected, configActualBasica())
		if len(diffs) != 0 {
			t.Errorf("campos vacíos no se comparan: %+v", diffs)
		}
	})

	t.Run("Valores distintos generan warning por campo", func(t *testing.T) {
		expected := configEsperada("Otra Empresa", "Otra Junta", "extraordinaria")
		diffs := comparator.CompareConfigurations(ctx, expected, configActualBasica())
		if len(diffs) != 3 {
			t.Fatalf("se esperaban 3 diferencias de junta, hay %d", len(diffs))
		}
		campos := map[string]bool{}
		for _, d := range diffs {
			if d.Section != "junta" || d.Type != models.DiffValorDistinto || d.Severity != models.SeverityWarning {
				t.Errorf("registro inesperado: %+v", d)
			}
			campos[d.Field] = true
		}
		for _, campo := range []string{"organizacion", "nombre", "tipo"} {
			if !campos[campo] {
				t.Errorf("falta la diferencia del campo %q", campo)
			}
		}
	})
}

func TestCompareConfigurationsPreguntas(t *testing.T) {
	comparator := NewComparator(rosterPrueba)
	ctx := context.Background()

	t.Run("Sin preguntas en ninguna fuente no se añade bloque", func(t *testing.T) {
		expected := configEsperada("Empresa SpA", "Junta Ordinaria 2025", "ordinaria")
		diffs := comparator.CompareConfigurations(ctx, expected, configActualBasica())
		for _, d := range diffs {
			if d.Section == "preguntas" {
				t.Errorf("no debía existir bloque de preguntas: %+v", d)
			}
		}
	})

	t.Run("El lado actual se reordena por order antes de comparar", func(t *testing.T) {
		expected := configEsperada("Empresa SpA", "Junta Ordinaria 2025", "ordinaria", "A", "B")
		actual := configActualBasica()
		actual.Preguntas = []models.Pregunta{
			{Name: "B", Order: orderPtr(2)},
			{Name: "A", Order: orderPtr(1)},
		}
		diffs := comparator.CompareConfigurations(ctx, expected, actual)
		if len(diffs) != 1 {
			t.Fatalf("se esperaba solo el bloque de preguntas, hay %d registros", len(diffs))
		}
		bloque := diffs[0]
		if bloque.Section != "preguntas" || bloque.Severity != models.SeverityInfo {
			t.Fatalf("bloque inesperado: %+v", bloque)
		}
		if bloque.OverallMatch == nil || !*bloque.OverallMatch {
			t.Errorf("después del reordenamiento ambas posiciones coinciden")
		}
	})

	t.Run("Bloque agregado con severidad info y detalle por posición", func(t *testing.T) {
		expected := configEsperada("Empresa SpA", "Junta Ordinaria 2025", "ordinaria", "A", "B", "C")
		actual := configActualBasica()
		actual.Preguntas = []models.Pregunta{{Name: "A", Order: orderPtr(1)}}
		diffs := comparator.CompareConfigurations(ctx, expected, actual)
		if len(diffs) != 1 {
			t.Fatalf("se esperaba 1 registro, hay %d", len(diffs))
		}
		details, ok := diffs[0].Details.([]models.DetallePregunta)
		if !ok {
			t.Fatalf("el detalle debe ser la lista de posiciones")
		}
		if len(details) != 3 {
			t.Errorf("se esperaban 3 posiciones, hay %d", len(details))
		}
		if diffs[0].OverallMatch == nil || *diffs[0].OverallMatch {
			t.Errorf("con posiciones faltantes el match global es falso")
		}
	})
}

func TestCompareConfigurationsValidadoresEncadenados(t *testing.T) {
	comparator := NewComparator(rosterPrueba)
	ctx := context.Background()

	expected := configEsperada("Empresa SpA", "Junta Ordinaria 2025", "ordinaria")
	actual := configActualBasica()
	actual.ConfiguracionGeneral.Shares = map[string]models.Serie{
		"a": {Name: "Serie A", Attendance: true, ShowOnHeader: true, ShowOnAttendance: true},
		"b": {Name: "Serie B"},
	}
	actual.AFPList = []models.Accionista{
		{Identity: "X", Name: "AFP Uno", Group: "A"},
		{Identity: "Y", Name: "AFP Dos", Group: "B"},
	}
	actual.ConfiguracionGeneral.Zoom = &models.ZoomConfig{
		HostEmail:        rosterPrueba[0],
		AlternativeHosts: hostsDesde(rosterPrueba[1:9]),
	}

	diffs := comparator.CompareConfigurations(ctx, expected, actual)

	secciones := make([]string, 0, len(diffs))
	for _, d := range diffs {
		secciones = append(secciones, d.Section)
	}
	want := []string{"configuracion", "afp", "zoom"}
	if len(secciones) != len(want) {
		t.Fatalf("secciones = %v; se esperaban %v", secciones, want)
	}
	for i := range want {
		if secciones[i] != want[i] {
			t.Errorf("orden de detección incorrecto: %v, se esperaba %v", secciones, want)
			break
		}
	}
}
