package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/evoting-cl/revisor-juntas/internal/models"
)

func informeDePrueba() *models.InformeFinal {
	overallMatch := false
	return &models.InformeFinal{
		Slug:   "junta-2025",
		TaskID: "abc-123",
		Status: models.TaskCompleted,
		ConfiguracionActual: &models.ConfigActual{
			Junta: models.JuntaActual{Nombre: "Junta Ordinaria de Accionistas", Tipo: "meeting"},
			ConfiguracionGeneral: models.ConfiguracionGeneral{
				Company: "Empresa SA",
			},
		},
		ComparisonSummary: &models.ComparisonReport{
			TotalDiffCount:      1,
			DiffCountsBySection: map[string]int{"junta": 1},
			DetailedDifferences: []models.Difference{{
				Section:      "junta",
				Field:        "nombre",
				Type:         models.DiffValorDistinto,
				Expected:     "Junta Ordinaria",
				Actual:       "Junta Extraordinaria",
				OverallMatch: &overallMatch,
				Severity:     models.SeverityWarning,
			}},
		},
		GeneradoEn: time.Now(),
	}
}

func TestReportServiceCicloCompleto(t *testing.T) {
	ctx := context.Background()
	svc := NewReportService(t.TempDir(), nil)

	filename, err := svc.SaveFinalReport(ctx, informeDePrueba())
	if err != nil {
		t.Fatalf("error guardando el informe: %v", err)
	}
	if filename != "report_junta-2025_abc-123.json" {
		t.Errorf("nombre de archivo inesperado: %s", filename)
	}

	t.Run("listar incluye el informe", func(t *testing.T) {
		nombres, err := svc.ListReports()
		if err != nil {
			t.Fatalf("error listando: %v", err)
		}
		if len(nombres) != 1 || nombres[0] != filename {
			t.Errorf("listado inesperado: %v", nombres)
		}
	})

	t.Run("cargar devuelve el contenido", func(t *testing.T) {
		informe, err := svc.LoadReport(filename)
		if err != nil {
			t.Fatalf("error cargando: %v", err)
		}
		if informe.Slug != "junta-2025" {
			t.Errorf("slug inesperado: %s", informe.Slug)
		}
		if informe.ComparisonSummary == nil || informe.ComparisonSummary.TotalDiffCount != 1 {
			t.Errorf("resumen de comparación incompleto: %+v", informe.ComparisonSummary)
		}
	})

	t.Run("cargar sanea rutas", func(t *testing.T) {
		if _, err := svc.LoadReport("../" + filename); err != nil {
			t.Errorf("el nombre con ruta relativa debía resolver al mismo archivo: %v", err)
		}
	})

	t.Run("render html", func(t *testing.T) {
		html, err := svc.RenderHTML(filename)
		if err != nil {
			t.Fatalf("error renderizando: %v", err)
		}
		salida := string(html)
		for _, fragmento := range []string{"junta-2025", "Empresa SA", "Diferencias detectadas: 1"} {
			if !strings.Contains(salida, fragmento) {
				t.Errorf("el HTML no contiene %q:\n%s", fragmento, salida)
			}
		}
	})

	t.Run("eliminar", func(t *testing.T) {
		if err := svc.DeleteReport(ctx, filename); err != nil {
			t.Fatalf("error eliminando: %v", err)
		}
		nombres, err := svc.ListReports()
		if err != nil {
			t.Fatalf("error listando tras eliminar: %v", err)
		}
		if len(nombres) != 0 {
			t.Errorf("el informe no se eliminó: %v", nombres)
		}
	})
}

func TestListReportsIgnoraOtrosArchivos(t *testing.T) {
	dir := t.TempDir()
	svc := NewReportService(dir, nil)

	if _, err := svc.SaveFinalReport(context.Background(), informeDePrueba()); err != nil {
		t.Fatalf("error guardando: %v", err)
	}
	escribirArchivo(t, dir, "notas.txt")
	escribirArchivo(t, dir, "otro.json")

	nombres, err := svc.ListReports()
	if err != nil {
		t.Fatalf("error listando: %v", err)
	}
	if len(nombres) != 1 {
		t.Errorf("se esperaba solo el informe, se obtuvo: %v", nombres)
	}
}

func escribirArchivo(t *testing.T, dir, nombre string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, nombre), []byte("{}"), 0o644); err != nil {
		t.Fatalf("error escribiendo %s: %v", nombre, err)
	}
}

func TestLoadReportInexistente(t *testing.T) {
	svc := NewReportService(t.TempDir(), nil)
	if _, err := svc.LoadReport("report_nada_xyz.json"); err == nil {
		t.Error("se esperaba error para un informe inexistente")
	}
}
