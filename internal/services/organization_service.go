package services

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel"

	"github.com/evoting-cl/revisor-juntas/internal/browser"
	"github.com/evoting-cl/revisor-juntas/internal/config"
	"github.com/evoting-cl/revisor-juntas/internal/sheets"
)

// ResultadoOrganizacion resume qué pasó con una fila de la planilla.
type ResultadoOrganizacion struct {
	Fila   int    `json:"fila"`
	Nombre string `json:"nombre"`
	Estado string `json:"estado"` // "Creado OK", "Error: ...", "Omitido"
}

// ResumenEjecucion es el resultado agregado de una corrida del runner.
type ResumenEjecucion struct {
	Procesadas int                     `json:"procesadas"`
	Creadas    int                     `json:"creadas"`
	Errores    int                     `json:"errores"`
	Omitidas   int                     `json:"omitidas"`
	Detalle    []ResultadoOrganizacion `json:"detalle"`
}

// OrganizationService recorre la planilla de organizaciones pendientes y
// las crea una a una en la plataforma, escribiendo el resultado de vuelta
// en la misma hoja.
type OrganizationService struct {
	cfg     *config.Config
	browser *browser.SessionManager
	hoja    *sheets.Client
}

// NewOrganizationService arma el runner con sus colaboradores.
func NewOrganizationService(cfg *config.Config, sessionManager *browser.SessionManager, hoja *sheets.Client) *OrganizationService {
	return &OrganizationService{cfg: cfg, browser: sessionManager, hoja: hoja}
}

// Run procesa la planilla completa: inicia sesión una sola vez, filtra
// las filas ya terminadas y crea el resto. Cada fila registra su avance
// en la columna de procesamiento y su desenlace en la columna final.
func (s *OrganizationService) Run(ctx context.Context) (*ResumenEjecucion, error) {
	ctx, span := otel.Tracer("services").Start(ctx, "OrganizationService.Run")
	defer span.End()

	filas, err := s.hoja.ReadRows(ctx)
	if err != nil {
		return nil, err
	}
	if len(filas) == 0 {
		log.Printf("La planilla no tiene filas de datos. Nada que procesar.")
		return &ResumenEjecucion{}, nil
	}

	loginURL := s.cfg.EsociosBaseURL + "/superadmin/login"
	if _, err := s.browser.Login(ctx, loginURL, s.cfg.EvotingUsername, s.cfg.EvotingPassword); err != nil {
		return nil, fmt.Errorf("error iniciando sesión como superadmin: %w", err)
	}

	addURL := s.cfg.EsociosBaseURL + "/admin/organizations/add"
	resumen := &ResumenEjecucion{}

	for _, fila := range filas {
		if err := ctx.Err(); err != nil {
			return resumen, err
		}

		resultado := s.procesarFila(ctx, addURL, fila)
		resumen.Detalle = append(resumen.Detalle, resultado)
		switch resultado.Estado {
		case "Omitido":
			resumen.Omitidas++
		case "Creado OK":
			resumen.Procesadas++
			resumen.Creadas++
		default:
			resumen.Procesadas++
			resumen.Errores++
		}
	}

	log.Printf("Corrida terminada: %d procesadas, %d creadas, %d con error, %d omitidas.",
		resumen.Procesadas, resumen.Creadas, resumen.Errores, resumen.Omitidas)
	return resumen, nil
}

// procesarFila crea la organización de una fila y deja el resultado en la
// planilla. Las filas con estado final no vacío ya fueron procesadas en
// una corrida anterior y se saltan.
func (s *OrganizationService) procesarFila(ctx context.Context, addURL string, fila sheets.Fila) ResultadoOrganizacion {
	nombre := fila.Datos[sheets.ColumnaNombreOrg]
	padre := fila.Datos[sheets.ColumnaPadre]
	estadoFinal := fila.Datos[sheets.ColumnaEstadoFinal]

	if estadoFinal != "" {
		log.Printf("Fila %d ('%s') ya tiene estado final '%s'. Omitiendo.", fila.Numero, nombre, estadoFinal)
		return ResultadoOrganizacion{Fila: fila.Numero, Nombre: nombre, Estado: "Omitido"}
	}
	if nombre == "" {
		log.Printf("Fila %d sin nombre de organización. Omitiendo.", fila.Numero)
		return ResultadoOrganizacion{Fila: fila.Numero, Nombre: nombre, Estado: "Omitido"}
	}

	log.Printf("Procesando fila %d: organización '%s' (padre: '%s')", fila.Numero, nombre, padre)
	if err := s.hoja.UpdateCell(ctx, fila.Numero, sheets.IndiceEstadoProceso, "Iniciado"); err != nil {
		log.Printf("No se pudo marcar la fila %d como iniciada: %v", fila.Numero, err)
	}

	err := s.browser.CreateOrganization(addURL, browser.OrganizacionNueva{Nombre: nombre, Padre: padre})

	estado := "Creado OK"
	proceso := "Completado"
	if err != nil {
		log.Printf("Error creando la organización '%s' (fila %d): %v", nombre, fila.Numero, err)
		estado = fmt.Sprintf("Error: %v", err)
		proceso = "Error Final"
	}

	if errHoja := s.hoja.UpdateCell(ctx, fila.Numero, sheets.IndiceEstadoFinal, estado); errHoja != nil {
		log.Printf("No se pudo escribir el estado final de la fila %d: %v", fila.Numero, errHoja)
	}
	if errHoja := s.hoja.UpdateCell(ctx, fila.Numero, sheets.IndiceEstadoProceso, proceso); errHoja != nil {
		log.Printf("No se pudo escribir el estado de procesamiento de la fila %d: %v", fila.Numero, errHoja)
	}
	return ResultadoOrganizacion{Fila: fila.Numero, Nombre: nombre, Estado: estado}
}
