// Package services contiene la orquestación de las revisiones en segundo
// plano, la persistencia de informes y el runner de organizaciones. El
// estado combinado de cada tarea vive en un mapa protegido por un único
// mutex; el motor de comparación se mantiene puro y sin estado.
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/evoting-cl/revisor-juntas/internal/browser"
	"github.com/evoting-cl/revisor-juntas/internal/comparison"
	"github.com/evoting-cl/revisor-juntas/internal/config"
	"github.com/evoting-cl/revisor-juntas/internal/esocios"
	"github.com/evoting-cl/revisor-juntas/internal/extraction"
	"github.com/evoting-cl/revisor-juntas/internal/models"
)

// retencionEstado es cuánto tiempo queda consultable el estado de una
// tarea terminada antes de removerse de memoria.
const retencionEstado = 10 * time.Minute

// resultadosTarea guarda las salidas intermedias de las dos etapas
// paralelas hasta que la comparación las consume.
type resultadosTarea struct {
	actual   *models.ConfigActual
	esperada *models.ConfigEsperada
}

// VerificationService orquesta una revisión combinada: obtención de la
// configuración actual desde la plataforma, extracción de la esperada
// desde los documentos y la comparación final.
type VerificationService struct {
	cfg        *config.Config
	browser    *browser.SessionManager
	extractor  *extraction.Extractor
	comparator *comparison.Comparator
	reports    *ReportService

	mu         sync.Mutex
	tasks      map[string]*models.RevisionTask
	resultados map[string]*resultadosTarea
}

// NewVerificationService arma el servicio con sus colaboradores.
func NewVerificationService(cfg *config.Config, sessionManager *browser.SessionManager, extractor *extraction.Extractor, reports *ReportService) *VerificationService {
	return &VerificationService{
		cfg:        cfg,
		browser:    sessionManager,
		extractor:  extractor,
		comparator: comparison.NewComparator(cfg.AlternativeHosts),
		reports:    reports,
		tasks:      make(map[string]*models.RevisionTask),
		resultados: make(map[string]*resultadosTarea),
	}
}

// StartRevision registra la tarea y lanza las dos etapas en paralelo.
// Devuelve el task_id para consultar el estado.
func (s *VerificationService) StartRevision(slug string, docs []extraction.Documento) string {
	taskID := uuid.NewString()

	task := &models.RevisionTask{
		TaskID:      taskID,
		Slug:        slug,
		Status:      models.TaskRunning,
		Plataforma:  models.SectionStatus{Status: models.TaskPending},
		Docs:        models.SectionStatus{Status: models.TaskPending},
		Comparacion: models.SectionStatus{Status: models.TaskPending},
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.tasks[taskID] = task
	s.resultados[taskID] = &resultadosTarea{}
	s.mu.Unlock()

	log.Printf("[Tarea %s] Revisión iniciada para slug: %s (%d documentos)", taskID, slug, len(docs))

	go s.runPlataforma(taskID, slug)
	go s.runDocs(taskID, docs)

	return taskID
}

// GetTask devuelve una copia del estado combinado de la tarea.
func (s *VerificationService) GetTask(taskID string) (models.RevisionTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskID]
	if !ok {
		return models.RevisionTask{}, false
	}
	return *task, true
}

// runPlataforma es la etapa que obtiene la configuración actual: login de
// navegador, captura de cookies y llamadas a la API de la plataforma.
func (s *VerificationService) runPlataforma(taskID, slug string) {
	ctx, span := otel.Tracer("services").Start(context.Background(), "runPlataforma")
	defer span.End()

	s.updateSection(taskID, "plataforma", models.TaskRunning, "Iniciando sesión en la plataforma...", "")

	defer func() {
		// Pase lo que pase, intentar gatillar la comparación.
		s.checkAndTriggerComparison(taskID)
	}()

	cookies, err := s.browser.Login(ctx, s.cfg.EvotingBaseURL+"/", s.cfg.EvotingUsername, s.cfg.EvotingPassword)
	if err != nil {
		s.updateSection(taskID, "plataforma", models.TaskError, "Error iniciando sesión en la plataforma.", err.Error())
		return
	}

	s.updateSection(taskID, "plataforma", models.TaskRunning, "Sesión activa. Consultando la API...", "")

	client := esocios.NewClient(s.cfg.EvotingBaseURL, cookies)
	actual, err := client.FetchConfigActual(ctx, slug)
	if err != nil {
		s.updateSection(taskID, "plataforma", models.TaskError, "Error obteniendo la configuración actual.", err.Error())
		return
	}

	s.mu.Lock()
	if resultado, ok := s.resultados[taskID]; ok {
		resultado.actual = actual
	}
	s.mu.Unlock()

	s.updateSection(taskID, "plataforma", models.TaskCompleted, "Datos obtenidos desde la plataforma.", "")
}

// runDocs es la etapa de documentos: un JSON único pasa directo; el resto
// va al extractor. JSON mezclado con otros formatos es un error.
func (s *VerificationService) runDocs(taskID string, docs []extraction.Documento) {
	ctx, span := otel.Tracer("services").Start(context.Background(), "runDocs")
	defer span.End()

	s.updateSection(taskID, "docs", models.TaskRunning, "Iniciando procesamiento de documentos...", "")

	defer func() {
		s.checkAndTriggerComparison(taskID)
	}()

	var jsons, otros []extraction.Documento
	for _, doc := range docs {
		if strings.HasSuffix(strings.ToLower(doc.Nombre), ".json") {
			jsons = append(jsons, doc)
		} else {
			otros = append(otros, doc)
		}
	}

	var esperada *models.ConfigEsperada
	var err error
	switch {
	case len(jsons) > 0 && len(otros) > 0:
		err = fmt.Errorf("no se puede procesar un archivo JSON junto con otros tipos de archivo")
	case len(jsons) > 1:
		err = fmt.Errorf("solo se puede procesar un archivo JSON a la vez")
	case len(jsons) == 1:
		s.updateSection(taskID, "docs", models.TaskRunning, fmt.Sprintf("Procesando JSON: %s...", jsons[0].Nombre), "")
		esperada, err = models.ParseConfigEsperada(jsons[0].Contenido)
	case len(otros) > 0:
		s.updateSection(taskID, "docs", models.TaskRunning, fmt.Sprintf("Enviando %d archivo(s) al modelo de extracción...", len(otros)), "")
		esperada, err = s.extractor.ExtractConfigEsperada(ctx, otros)
	default:
		err = fmt.Errorf("no se proporcionaron archivos de tipo procesable")
	}

	if err != nil {
		s.updateSection(taskID, "docs", models.TaskError, "Error procesando documentos.", err.Error())
		return
	}

	s.mu.Lock()
	if resultado, ok := s.resultados[taskID]; ok {
		resultado.esperada = esperada
	}
	s.mu.Unlock()

	s.updateSection(taskID, "docs", models.TaskCompleted, "Procesamiento de documentos completado.", "")
}

// checkAndTriggerComparison corre la comparación cuando ambas etapas
// terminaron. La decisión se toma bajo el lock; la comparación y la
// persistencia corren fuera de él.
func (s *VerificationService) checkAndTriggerComparison(taskID string) {
	var actual *models.ConfigActual
	var esperada *models.ConfigEsperada
	etapaFallida := false
	shouldRun := false

	s.mu.Lock()
	task, ok := s.tasks[taskID]
	if !ok {
		s.mu.Unlock()
		log.Printf("[Tarea %s] Chequeo de comparación: la tarea ya no existe.", taskID)
		return
	}
	plataformaDone := task.Plataforma.Status == models.TaskCompleted || task.Plataforma.Status == models.TaskError
	docsDone := task.Docs.Status == models.TaskCompleted || task.Docs.Status == models.TaskError
	if plataformaDone && docsDone && task.Comparacion.Status == models.TaskPending {
		shouldRun = true
		task.Comparacion.Status = models.TaskRunning
		task.Comparacion.Message = "Iniciando comparación..."
		etapaFallida = task.Plataforma.Status == models.TaskError || task.Docs.Status == models.TaskError
		if resultado, okR := s.resultados[taskID]; okR {
			actual = resultado.actual
			esperada = resultado.esperada
		}
	}
	s.mu.Unlock()

	if !shouldRun {
		return
	}
	log.Printf("[Tarea %s] Ambas etapas terminaron. Gatillando comparación.", taskID)

	if etapaFallida || actual == nil || esperada == nil {
		msg := "No se puede comparar porque falló una etapa previa."
		s.updateSection(taskID, "comparacion", models.TaskError, msg, msg)
		s.finishTask(taskID, models.TaskError, "")
		return
	}

	ctx, span := otel.Tracer("services").Start(context.Background(), "comparacion")
	defer span.End()

	report := s.comparator.GenerateReportData(ctx, esperada, actual)

	informe := &models.InformeFinal{
		Slug:                    task.Slug,
		TaskID:                  taskID,
		Status:                  models.TaskCompleted,
		ConfiguracionActual:     actual,
		ConfiguracionDocumentos: esperada,
		ComparisonSummary:       report,
	}
	filename, err := s.reports.SaveFinalReport(ctx, informe)
	if err != nil {
		s.updateSection(taskID, "comparacion", models.TaskError, "Error guardando el informe final.", err.Error())
		s.finishTask(taskID, models.TaskError, "")
		return
	}

	s.updateSection(taskID, "comparacion", models.TaskCompleted,
		fmt.Sprintf("Comparación completada. Diferencias: %d.", report.TotalDiffCount), "")
	s.finishTask(taskID, models.TaskCompleted, filename)
}

// updateSection actualiza una etapa bajo el lock. Un error de etapa marca
// también la tarea completa como error, acumulando los detalles.
func (s *VerificationService) updateSection(taskID, section, status, message, errorDetails string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		log.Printf("[Tarea %s] Intento de actualizar la sección '%s' de una tarea inexistente.", taskID, section)
		return
	}

	var sec *models.SectionStatus
	switch section {
	case "plataforma":
		sec = &task.Plataforma
	case "docs":
		sec = &task.Docs
	case "comparacion":
		sec = &task.Comparacion
	default:
		log.Printf("[Tarea %s] Sección desconocida: %s", taskID, section)
		return
	}

	sec.Status = status
	sec.Message = message
	if errorDetails != "" {
		sec.Error = errorDetails
		task.Error += fmt.Sprintf("[Error %s]: %s\n", section, errorDetails)
		task.Status = models.TaskError
	}
	log.Printf("[Tarea %s] Sección %s: %s (%s)", taskID, section, status, message)
}

// finishTask fija el estado final y agenda la remoción diferida del
// estado en memoria.
func (s *VerificationService) finishTask(taskID, status, finalReport string) {
	s.mu.Lock()
	if task, ok := s.tasks[taskID]; ok {
		task.Status = status
		if finalReport != "" {
			task.FinalReport = finalReport
		}
	}
	delete(s.resultados, taskID)
	s.mu.Unlock()

	log.Printf("[Tarea %s] Estado final: %s. Informe: %s. Remoción del estado en %s.", taskID, status, finalReport, retencionEstado)
	time.AfterFunc(retencionEstado, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if task, ok := s.tasks[taskID]; ok {
			if task.Status == models.TaskCompleted || task.Status == models.TaskError {
				delete(s.tasks, taskID)
				log.Printf("[Tarea %s] Estado removido de memoria tras la retención.", taskID)
			}
		}
	})
}
