package models

import (
	"encoding/json"
	"fmt"
)

// ConfigActual representa el estado vivo de una junta tal como lo entrega
// la plataforma de administración (API + sesión de navegador unificadas).
type ConfigActual struct {
	Slug                 string               `json:"slug,omitempty"`
	Fuente               string               `json:"fuente,omitempty"`
	Junta                JuntaActual          `json:"junta"`
	ConfiguracionGeneral ConfiguracionGeneral `json:"configuracion_general"`
	Preguntas            []Pregunta           `json:"preguntas"`
	AFPList              []Accionista         `json:"afp_list,omitempty"`
}

// JuntaActual son los campos de cabecera de la junta copiados de la API.
type JuntaActual struct {
	Nombre string `json:"nombre"`
	Tipo   string `json:"tipo"`
	Estado string `json:"estado,omitempty"`
}

// ConfiguracionGeneral agrupa la configuración de empresa, series y Zoom.
type ConfiguracionGeneral struct {
	Company     string           `json:"company"`
	FechaInicio string           `json:"start_date,omitempty"`
	Shares      map[string]Serie `json:"shares,omitempty"`
	Zoom        *ZoomConfig      `json:"zoom,omitempty"`
	Config      ConfigPlataforma `json:"config,omitempty"`
}

// ConfigPlataforma contiene parámetros sueltos de la plataforma que
// algunos validadores necesitan (hoy solo la landing).
type ConfigPlataforma struct {
	LandingURL string `json:"landing_url,omitempty"`
}

// Serie es una serie de acciones con sus tres checks de participación.
type Serie struct {
	Name             string `json:"name"`
	Attendance       bool   `json:"attendance"`
	ShowOnHeader     bool   `json:"showOnHeader"`
	ShowOnAttendance bool   `json:"showOnAttendance"`
}

// Pregunta es una pregunta de votación tal como la expone la plataforma.
// Order viene como puntero: la plataforma a veces lo omite y en ese caso
// la pregunta se ordena al final.
type Pregunta struct {
	Name    string         `json:"name"`
	Order   *float64       `json:"order,omitempty"`
	Options []Opcion       `json:"options,omitempty"`
	Config  ConfigPregunta `json:"config,omitempty"`
}

// Opcion es una alternativa de respuesta de una pregunta.
type Opcion struct {
	Name string `json:"name"`
}

// ConfigPregunta contiene los flags de configuración de una pregunta.
type ConfigPregunta struct {
	Secret bool `json:"secret,omitempty"`
}

// Accionista es un registro de accionista de la lista de AFPs.
type Accionista struct {
	Identity string `json:"identity"`
	Name     string `json:"name"`
	Group    string `json:"group,omitempty"`
}

// ZoomConfig describe la reunión de Zoom asociada a la junta.
type ZoomConfig struct {
	HostEmail        string                 `json:"host_email"`
	AlternativeHosts []AnfitrionAlternativo `json:"alternative_hosts,omitempty"`
}

// AnfitrionAlternativo es una cuenta habilitada como co-anfitrión.
type AnfitrionAlternativo struct {
	Email string `json:"email"`
}

// ConfigEsperada representa la configuración extraída de los documentos
// fuente (actas, citaciones) por la capa de extracción.
type ConfigEsperada struct {
	Configuracion ConfiguracionDocs `json:"configuracion"`
}

// ConfiguracionDocs agrupa lo que los documentos declaran sobre la junta.
type ConfiguracionDocs struct {
	Junta     JuntaEsperada      `json:"junta"`
	Preguntas []PreguntaEsperada `json:"preguntas,omitempty"`
}

// JuntaEsperada son los campos de cabecera según los documentos.
type JuntaEsperada struct {
	Organizacion string `json:"organizacion,omitempty"`
	Nombre       string `json:"nombre,omitempty"`
	Tipo         string `json:"tipo,omitempty"`
}

// PreguntaEsperada es una pregunta en el orden de autoría del documento.
type PreguntaEsperada struct {
	Titulo string `json:"titulo"`
}

// ParseConfigActual decodifica y valida en un solo paso la configuración
// actual. Los validadores aguas abajo asumen la forma garantizada aquí y
// no vuelven a defenderse de claves faltantes.
func ParseConfigActual(data []byte) (*ConfigActual, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuración actual vacía")
	}
	var cfg ConfigActual
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error decodificando configuración actual: %w", err)
	}
	return &cfg, nil
}

// ParseConfigEsperada decodifica la configuración esperada extraída de
// documentos (o subida directamente como JSON).
func ParseConfigEsperada(data []byte) (*ConfigEsperada, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuración esperada vacía")
	}
	var cfg ConfigEsperada
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error decodificando configuración esperada: %w", err)
	}
	return &cfg, nil
}
