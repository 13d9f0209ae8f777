package services

import (
	"testing"
	"time"

	"github.com/evoting-cl/revisor-juntas/internal/browser"
	"github.com/evoting-cl/revisor-juntas/internal/config"
	"github.com/evoting-cl/revisor-juntas/internal/extraction"
	"github.com/evoting-cl/revisor-juntas/internal/models"
)

func servicioDePrueba(t *testing.T) *VerificationService {
	t.Helper()
	cfg := &config.Config{
		EvotingBaseURL: "https://ejemplo.invalid",
		// Sin credenciales: la etapa de plataforma falla de inmediato sin
		// lanzar el navegador.
		AlternativeHosts: []string{"host@ejemplo.com"},
	}
	reports := NewReportService(t.TempDir(), nil)
	return NewVerificationService(cfg, browser.NewSessionManager(browser.DefaultConfig()), extraction.NewExtractor(nil, ""), reports)
}

func esperarEstadoFinal(t *testing.T, svc *VerificationService, taskID string) models.RevisionTask {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		task, ok := svc.GetTask(taskID)
		if !ok {
			t.Fatalf("la tarea %s desapareció antes de terminar", taskID)
		}
		if task.Comparacion.Status == models.TaskCompleted || task.Comparacion.Status == models.TaskError {
			return task
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("la tarea %s no llegó a estado final", taskID)
	return models.RevisionTask{}
}

func TestStartRevisionSinCredenciales(t *testing.T) {
	svc := servicioDePrueba(t)

	docJSON := []byte(`{"configuracion":{"junta":{"organizacion":"Empresa SA","nombre":"Junta Ordinaria","tipo":"ordinaria"},"preguntas":[{"titulo":"Aprobación del balance"}]}}`)
	taskID := svc.StartRevision("junta-2025", []extraction.Documento{
		{Nombre: "config.json", Contenido: docJSON},
	})

	task := esperarEstadoFinal(t, svc, taskID)

	if task.Plataforma.Status != models.TaskError {
		t.Errorf("la etapa de plataforma debía fallar sin credenciales, estado: %s", task.Plataforma.Status)
	}
	if task.Docs.Status != models.TaskCompleted {
		t.Errorf("la etapa de documentos debía completarse con el JSON directo, estado: %s (%s)", task.Docs.Status, task.Docs.Error)
	}
	if task.Comparacion.Status != models.TaskError {
		t.Errorf("la comparación debía fallar por la etapa previa, estado: %s", task.Comparacion.Status)
	}
	if task.Status != models.TaskError {
		t.Errorf("estado combinado inesperado: %s", task.Status)
	}
	if task.Error == "" {
		t.Error("se esperaban detalles de error acumulados")
	}
}

func TestRunDocsRechazaMezclaDeFormatos(t *testing.T) {
	svc := servicioDePrueba(t)

	taskID := svc.StartRevision("junta-2025", []extraction.Documento{
		{Nombre: "config.json", Contenido: []byte(`{}`)},
		{Nombre: "acta.pdf", Contenido: []byte("%PDF-1.4")},
	})

	task := esperarEstadoFinal(t, svc, taskID)
	if task.Docs.Status != models.TaskError {
		t.Fatalf("la mezcla de JSON con otros formatos debía fallar, estado: %s", task.Docs.Status)
	}
}

func TestRunDocsRechazaVariosJSON(t *testing.T) {
	svc := servicioDePrueba(t)

	taskID := svc.StartRevision("junta-2025", []extraction.Documento{
		{Nombre: "a.json", Contenido: []byte(`{}`)},
		{Nombre: "b.json", Contenido: []byte(`{}`)},
	})

	task := esperarEstadoFinal(t, svc, taskID)
	if task.Docs.Status != models.TaskError {
		t.Fatalf("más de un JSON debía fallar, estado: %s", task.Docs.Status)
	}
}

func TestGetTaskInexistente(t *testing.T) {
	svc := servicioDePrueba(t)
	if _, ok := svc.GetTask("no-existe"); ok {
		t.Error("no debía encontrarse una tarea inexistente")
	}
}
