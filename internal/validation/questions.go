// Package validation contiene los validadores que se invocan por
// separado de la comparación principal: el de opciones de preguntas y el
// del slug publicado en revisa.js. La capa de reporte los llama de forma
// independiente; sus resultados no se mezclan con la lista de
// diferencias del comparador.
package validation

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/evoting-cl/revisor-juntas/internal/models"
	"github.com/evoting-cl/revisor-juntas/internal/utils"
)

// Estados del validador de preguntas.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// requiredOptions son las tres alternativas canónicas que toda pregunta
// pública no informativa debe ofrecer.
var requiredOptions = map[string]struct{}{
	"apruebo":    {},
	"rechazo":    {},
	"abstención": {},
}

// ValidateQuestionsJSON valida una lista de preguntas que llega como
// JSON crudo. Si el payload no es una lista, devuelve estado de error
// con una entrada explicativa, para que el llamador distinga "validó
// bien" de "no se pudo validar".
func ValidateQuestionsJSON(data []byte) (string, []models.PreguntaInvalida) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("Se esperaba una lista para validar preguntas: %v", err)
		return StatusError, []models.PreguntaInvalida{{
			Name:   "[Estructura Inválida]",
			Reason: "Se esperaba una lista de preguntas.",
		}}
	}

	// Forma intermedia: las opciones se decodifican aparte para poder
	// reportar por nombre una pregunta cuyas opciones no son una lista.
	type preguntaCruda struct {
		Name    string                `json:"name"`
		Order   *float64              `json:"order"`
		Options json.RawMessage       `json:"options"`
		Config  models.ConfigPregunta `json:"config"`
	}

	var invalid []models.PreguntaInvalida
	preguntas := make([]models.Pregunta, 0, len(items))
	for _, item := range items {
		var cruda preguntaCruda
		if err := json.Unmarshal(item, &cruda); err != nil {
			log.Printf("Item inválido encontrado en lista de preguntas: %v", err)
			invalid = append(invalid, models.PreguntaInvalida{
				Name:   "[Item Inválido]",
				Reason: "El item en la lista no es un objeto de pregunta.",
			})
			continue
		}

		p := models.Pregunta{Name: cruda.Name, Order: cruda.Order, Config: cruda.Config}
		if len(cruda.Options) > 0 && string(cruda.Options) != "null" {
			if err := json.Unmarshal(cruda.Options, &p.Options); err != nil {
				name := cruda.Name
				if name == "" {
					name = "[Pregunta sin nombre]"
				}
				// Las preguntas exentas tampoco validan sus opciones.
				if cruda.Config.Secret || EsEleccionDirectorio(name) || esInformativa(name) {
					continue
				}
				log.Printf("Opciones inválidas para pregunta '%s' (no es lista).", name)
				invalid = append(invalid, models.PreguntaInvalida{
					Name:   name,
					Reason: "Formato de opciones inválido (se esperaba una lista).",
				})
				continue
			}
		}
		preguntas = append(preguntas, p)
	}

	status, invalidTyped := ValidateQuestions(preguntas)
	invalid = append(invalid, invalidTyped...)
	if len(invalid) > 0 {
		status = StatusError
	}
	return status, invalid
}

// ValidateQuestions revisa que cada pregunta pública, que no sea de
// elección de directorio ni informativa, ofrezca exactamente las tres
// opciones canónicas (apruebo, rechazo, abstención). Las preguntas
// secretas, de directorio o marcadas "[informativa]" se saltan.
func ValidateQuestions(preguntas []models.Pregunta) (string, []models.PreguntaInvalida) {
	var invalid []models.PreguntaInvalida

	for _, q := range preguntas {
		name := q.Name
		if name == "" {
			name = "[Pregunta sin nombre]"
		}

		if q.Config.Secret || EsEleccionDirectorio(name) || esInformativa(name) {
			continue
		}

		optionsSet := make(map[string]struct{})
		for _, opt := range q.Options {
			optName := strings.ToLower(strings.TrimSpace(opt.Name))
			if optName != "" {
				optionsSet[optName] = struct{}{}
			}
		}

		if !sameOptionSet(optionsSet, requiredOptions) {
			found := setToSorted(optionsSet)
			foundDesc := "Ninguna"
			if len(found) > 0 {
				foundDesc = fmt.Sprintf("%v", found)
			}
			reason := fmt.Sprintf("Opciones encontradas: %s. Se esperaban: %v.", foundDesc, setToSorted(requiredOptions))
			log.Printf("Validación fallida para pregunta '%s': %s", name, reason)
			invalid = append(invalid, models.PreguntaInvalida{
				Name:         name,
				Reason:       reason,
				OptionsFound: found,
			})
		}
	}

	status := StatusOK
	if len(invalid) > 0 {
		status = StatusError
	}
	log.Printf("Validación de preguntas finalizada. Estado: %s. Inválidas: %d", status, len(invalid))
	return status, invalid
}

// EsEleccionDirectorio detecta títulos de elección o designación de
// directores/directorio, sin importar mayúsculas ni tildes. Estas
// preguntas usan papeletas propias y quedan exentas de la validación de
// opciones.
func EsEleccionDirectorio(titulo string) bool {
	plano := utils.QuitarAcentos(titulo)
	esEleccion := strings.Contains(plano, "eleccion") || strings.Contains(plano, "designacion")
	esDirectorio := strings.Contains(plano, "director")
	return esEleccion && esDirectorio
}

func esInformativa(titulo string) bool {
	return strings.Contains(strings.ToLower(titulo), "[informativa]")
}

func sameOptionSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func setToSorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
