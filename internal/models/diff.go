package models

// Severidades de una diferencia detectada. Controlan el resaltado en la
// capa de reporte: info para resultados neutros de comparación, warning
// para problemas probables, danger para invariantes estructurales rotas.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
)

// Tipos de diferencia emitidos por el comparador y los validadores.
const (
	DiffValorDistinto          = "valor_distinto"
	DiffPreguntasComparadas    = "lista_preguntas_comparadas"
	DiffChecksMultiplesSeries  = "validacion_checks_multiples_series"
	DiffAFPNombreInconsistente = "afp_nombre_inconsistente"
	DiffAFPSinGrupo            = "afp_sin_grupo_definido"
	DiffAFPGrupoVacio          = "afp_grupo_vacio_o_nulo"
	DiffAFPMultiplesGrupos     = "afp_multiples_grupos"
	DiffFaltanAnfitriones      = "faltan_anfitriones_alternativos"
)

// Difference es un registro inmutable de una discrepancia detectada
// durante una corrida de comparación. Solo contiene strings, booleanos,
// listas y mapas para poder serializarse y persistirse directamente.
type Difference struct {
	Section      string      `json:"section"`
	Field        string      `json:"field"`
	Type         string      `json:"type"`
	Identifier   string      `json:"identifier,omitempty"`
	Expected     interface{} `json:"expected,omitempty"`
	Actual       interface{} `json:"actual,omitempty"`
	Details      interface{} `json:"details,omitempty"`
	OverallMatch *bool       `json:"overall_match,omitempty"`
	Severity     string      `json:"severity"`
	Message      string      `json:"message,omitempty"`
}

// DetallePregunta es el resultado de comparar una posición de la lista
// de preguntas: índice 1-based, títulos de ambos lados y clasificación.
type DetallePregunta struct {
	Index        int     `json:"index"`
	Expected     *string `json:"expected"`
	Actual       *string `json:"actual"`
	Match        bool    `json:"match"`
	LiteralMatch bool    `json:"literal_match"`
	DiffType     string  `json:"diff_type"`
	DiffHTML     string  `json:"diff_html,omitempty"`
}

// ComparisonReport es el payload que consume la capa de render: conteo
// total, conteos por sección y la lista de diferencias en orden de
// detección. Se recalcula en cada invocación, nunca se muta.
type ComparisonReport struct {
	TotalDiffCount      int            `json:"total_diff_count"`
	DiffCountsBySection map[string]int `json:"diff_counts_by_section"`
	DetailedDifferences []Difference   `json:"detailed_differences"`
}

// PreguntaInvalida es una entrada del validador de opciones: la pregunta
// que falló y el motivo, con las opciones encontradas si aplica.
type PreguntaInvalida struct {
	Name         string   `json:"name"`
	Reason       string   `json:"reason"`
	OptionsFound []string `json:"options_found,omitempty"`
}
