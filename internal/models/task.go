package models

import "time"

// Estados posibles de una tarea de revisión y de sus secciones.
const (
	TaskPending   = "pending"
	TaskRunning   = "running"
	TaskCompleted = "completed"
	TaskError     = "error"
)

// SectionStatus es el estado de una etapa de la revisión (obtención de
// datos de la plataforma, procesamiento de documentos o comparación).
type SectionStatus struct {
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	ResultPath string `json:"result_path,omitempty"`
	Error      string `json:"error,omitempty"`
}

// RevisionTask es el estado combinado de una revisión en curso. Las dos
// primeras etapas corren en paralelo; la comparación parte cuando ambas
// terminan.
type RevisionTask struct {
	TaskID      string        `json:"task_id"`
	Slug        string        `json:"slug"`
	Status      string        `json:"status"`
	Plataforma  SectionStatus `json:"plataforma"`
	Docs        SectionStatus `json:"docs"`
	Comparacion SectionStatus `json:"comparacion"`
	Error       string        `json:"error,omitempty"`
	FinalReport string        `json:"final_report,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// InformeFinal es el documento que se persiste al terminar una revisión:
// ambas configuraciones más el resumen de la comparación.
type InformeFinal struct {
	Slug                    string            `json:"slug"`
	TaskID                  string            `json:"task_id"`
	Status                  string            `json:"status"`
	ConfiguracionActual     *ConfigActual     `json:"configuracion_actual"`
	ConfiguracionDocumentos *ConfigEsperada   `json:"configuracion_documentos"`
	ComparisonSummary       *ComparisonReport `json:"comparison_summary"`
	GeneradoEn              time.Time         `json:"generado_en"`
}

// ResumenInforme es la entrada que se indexa en el archivo de informes
// para la búsqueda del historial.
type ResumenInforme struct {
	ID                string `json:"id,omitempty"`
	Slug              string `json:"slug"`
	NombreJunta       string `json:"nombre_junta"`
	Organizacion      string `json:"organizacion,omitempty"`
	Filename          string `json:"filename"`
	TotalDiffs        int32  `json:"total_diffs"`
	GeneradoEn        int64  `json:"generado_en"`
	ContenidoBusqueda string `json:"contenido_busqueda"`
}
