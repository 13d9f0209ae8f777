package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"

	"github.com/evoting-cl/revisor-juntas/internal/archive"
	"github.com/evoting-cl/revisor-juntas/internal/models"
	"github.com/evoting-cl/revisor-juntas/internal/utils"
)

// ReportService persiste los informes finales en disco y mantiene el
// archivo buscable en Typesense.
type ReportService struct {
	reportsDir string
	archive    *archive.Client
}

// NewReportService crea el servicio. El cliente de archivo puede ser nil;
// en ese caso los informes solo viven en disco.
func NewReportService(reportsDir string, archiveClient *archive.Client) *ReportService {
	return &ReportService{reportsDir: reportsDir, archive: archiveClient}
}

// SaveFinalReport escribe el informe final y lo indexa en el archivo.
// Devuelve el nombre de archivo generado.
func (s *ReportService) SaveFinalReport(ctx context.Context, informe *models.InformeFinal) (string, error) {
	if informe.GeneradoEn.IsZero() {
		informe.GeneradoEn = time.Now()
	}
	filename := fmt.Sprintf("report_%s_%s.json", informe.Slug, informe.TaskID)
	path := filepath.Join(s.reportsDir, filename)

	data, err := json.MarshalIndent(informe, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error serializando el informe final: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("error guardando el informe en %s: %w", path, err)
	}
	log.Printf("Informe final guardado en: %s", path)

	if s.archive != nil {
		resumen := models.ResumenInforme{
			Slug:       informe.Slug,
			Filename:   filename,
			GeneradoEn: informe.GeneradoEn.Unix(),
		}
		if informe.ConfiguracionActual != nil {
			resumen.NombreJunta = informe.ConfiguracionActual.Junta.Nombre
			resumen.Organizacion = informe.ConfiguracionActual.ConfiguracionGeneral.Company
		}
		if informe.ComparisonSummary != nil {
			resumen.TotalDiffs = int32(informe.ComparisonSummary.TotalDiffCount)
		}
		if err := s.archive.IndexReport(ctx, resumen); err != nil {
			// El archivo es un índice secundario: un fallo no invalida el
			// informe en disco.
			log.Printf("No se pudo indexar el informe %s: %v", filename, err)
		}
	}
	return filename, nil
}

// ListReports devuelve los nombres de informe guardados, más reciente
// primero.
func (s *ReportService) ListReports() ([]string, error) {
	entries, err := os.ReadDir(s.reportsDir)
	if err != nil {
		return nil, fmt.Errorf("error listando el directorio de informes: %w", err)
	}

	type conFecha struct {
		nombre string
		mod    time.Time
	}
	var informes []conFecha
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "report_") || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		informes = append(informes, conFecha{nombre: entry.Name(), mod: info.ModTime()})
	}
	sort.Slice(informes, func(i, j int) bool { return informes[i].mod.After(informes[j].mod) })

	nombres := make([]string, 0, len(informes))
	for _, inf := range informes {
		nombres = append(nombres, inf.nombre)
	}
	return nombres, nil
}

// LoadReport lee un informe por nombre. El nombre se sanea para impedir
// escapes del directorio.
func (s *ReportService) LoadReport(filename string) (*models.InformeFinal, error) {
	path := filepath.Join(s.reportsDir, utils.SanitizeFilename(filename))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var informe models.InformeFinal
	if err := json.Unmarshal(data, &informe); err != nil {
		return nil, fmt.Errorf("el informe %s no es un JSON válido: %w", filename, err)
	}
	return &informe, nil
}

// DeleteReport elimina el informe del disco y del archivo.
func (s *ReportService) DeleteReport(ctx context.Context, filename string) error {
	clean := utils.SanitizeFilename(filename)
	path := filepath.Join(s.reportsDir, clean)
	if err := os.Remove(path); err != nil {
		return err
	}
	log.Printf("Informe %s eliminado.", clean)

	if s.archive != nil {
		if err := s.archive.DeleteReport(ctx, clean); err != nil {
			log.Printf("No se pudo eliminar el informe %s del archivo: %v", clean, err)
		}
	}
	return nil
}

// RenderHTML arma un resumen en markdown del informe y lo convierte a
// HTML para revisión rápida en el navegador.
func (s *ReportService) RenderHTML(filename string) ([]byte, error) {
	informe, err := s.LoadReport(filename)
	if err != nil {
		return nil, err
	}
	md := resumenMarkdown(informe)
	return markdown.ToHTML([]byte(md), nil, nil), nil
}

func resumenMarkdown(informe *models.InformeFinal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Informe de revisión: %s\n\n", informe.Slug)
	if informe.ConfiguracionActual != nil {
		fmt.Fprintf(&b, "**Junta:** %s (%s)\n\n", informe.ConfiguracionActual.Junta.Nombre, informe.ConfiguracionActual.Junta.Tipo)
		fmt.Fprintf(&b, "**Organización:** %s\n\n", informe.ConfiguracionActual.ConfiguracionGeneral.Company)
	}
	fmt.Fprintf(&b, "**Generado:** %s\n\n", informe.GeneradoEn.Format("02/01/2006 15:04:05"))

	if informe.ComparisonSummary == nil {
		b.WriteString("Sin resumen de comparación.\n")
		return b.String()
	}

	resumen := informe.ComparisonSummary
	fmt.Fprintf(&b, "## Diferencias detectadas: %d\n\n", resumen.TotalDiffCount)

	secciones := make([]string, 0, len(resumen.DiffCountsBySection))
	for seccion := range resumen.DiffCountsBySection {
		secciones = append(secciones, seccion)
	}
	sort.Strings(secciones)
	for _, seccion := range secciones {
		fmt.Fprintf(&b, "- **%s**: %d\n", seccion, resumen.DiffCountsBySection[seccion])
	}
	b.WriteString("\n")

	for _, diff := range resumen.DetailedDifferences {
		fmt.Fprintf(&b, "### [%s] %s / %s\n\n", diff.Severity, diff.Section, diff.Field)
		if diff.Message != "" {
			fmt.Fprintf(&b, "%s\n\n", diff.Message)
		}
		if diff.Expected != nil || diff.Actual != nil {
			fmt.Fprintf(&b, "- Esperado: `%v`\n- Actual: `%v`\n\n", diff.Expected, diff.Actual)
		}
	}
	return b.String()
}
