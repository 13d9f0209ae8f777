package validation

import (
	"testing"

	"github.com/evoting-cl/revisor-juntas/internal/models"
)

func preguntaConOpciones(name string, opciones ...string) models.Pregunta {
	opts := make([]models.Opcion, 0, len(opciones))
	for _, o := range opciones {
		opts = append(opts, models.Opcion{Name: o})
	}
	return models.Pregunta{Name: name, Options: opts}
}

func TestValidateQuestions(t *testing.T) {
	t.Run("Opciones canónicas exactas en cualquier caso y orden", func(t *testing.T) {
		preguntas := []models.Pregunta{
			preguntaConOpciones("Aprobación de la Memoria", "Apruebo", "Rechazo", "Abstención"),
			preguntaConOpciones("Balance", "ABSTENCIÓN", "APRUEBO", "RECHAZO"),
			preguntaConOpciones("Dividendos", "  apruebo ", "rechazo", "abstención"),
		}
		status, invalid := ValidateQuestions(preguntas)
		if status != StatusOK || len(invalid) != 0 {
			t.Errorf("todas las preguntas eran válidas: status=%q invalid=%+v", status, invalid)
		}
	})

	t.Run("Opción faltante invalida con options_found", func(t *testing.T) {
		preguntas := []models.Pregunta{
			preguntaConOpciones("Aprobación de la Memoria", "Apruebo", "Rechazo"),
		}
		status, invalid := ValidateQuestions(preguntas)
		if status != StatusError || len(invalid) != 1 {
			t.Fatalf("se esperaba 1 pregunta inválida: status=%q invalid=%+v", status, invalid)
		}
		entry := invalid[0]
		if entry.Name != "Aprobación de la Memoria" {
			t.Errorf("nombre incorrecto: %q", entry.Name)
		}
		if len(entry.OptionsFound) != 2 || entry.OptionsFound[0] != "apruebo" || entry.OptionsFound[1] != "rechazo" {
			t.Errorf("options_found incorrecto: %v", entry.OptionsFound)
		}
	})

	t.Run("Opción extra también invalida", func(t *testing.T) {
		preguntas := []models.Pregunta{
			preguntaConOpciones("Balance", "Apruebo", "Rechazo", "Abstención", "Me inhabilito"),
		}
		status, invalid := ValidateQuestions(preguntas)
		if status != StatusError || len(invalid) != 1 {
			t.Errorf("una opción extra debe invalidar: status=%q invalid=%+v", status, invalid)
		}
	})

	t.Run("Grafía distinta invalida", func(t *testing.T) {
		// "abstencion" sin tilde no es la opción canónica.
		preguntas := []models.Pregunta{
			preguntaConOpciones("Balance", "Apruebo", "Rechazo", "Abstencion"),
		}
		status, _ := ValidateQuestions(preguntas)
		if status != StatusError {
			t.Errorf("la grafía sin tilde debe invalidar")
		}
	})

	t.Run("Elección de directores queda exenta", func(t *testing.T) {
		preguntas := []models.Pregunta{
			preguntaConOpciones("Elección de Directores", "Juan Pérez", "María Soto"),
			preguntaConOpciones("Designación de miembros del Directorio", "Lista A", "Lista B"),
			preguntaConOpciones("ELECCION DE DIRECTORIO", "X"),
		}
		status, invalid := ValidateQuestions(preguntas)
		if status != StatusOK || len(invalid) != 0 {
			t.Errorf("las elecciones de directorio no se validan: %+v", invalid)
		}
	})

	t.Run("Pregunta secreta queda exenta", func(t *testing.T) {
		p := preguntaConOpciones("Remuneraciones", "Sí", "No")
		p.Config.Secret = true
		status, invalid := ValidateQuestions([]models.Pregunta{p})
		if status != StatusOK || len(invalid) != 0 {
			t.Errorf("las preguntas secretas no se validan: %+v", invalid)
		}
	})

	t.Run("Pregunta informativa queda exenta", func(t *testing.T) {
		preguntas := []models.Pregunta{
			preguntaConOpciones("[INFORMATIVA] Cuenta del presidente"),
		}
		status, invalid := ValidateQuestions(preguntas)
		if status != StatusOK || len(invalid) != 0 {
			t.Errorf("las preguntas informativas no se validan: %+v", invalid)
		}
	})

	t.Run("Opciones vacías se ignoran al armar el conjunto", func(t *testing.T) {
		preguntas := []models.Pregunta{
			preguntaConOpciones("Balance", "Apruebo", "", "Rechazo", "Abstención"),
		}
		status, _ := ValidateQuestions(preguntas)
		if status != StatusOK {
			t.Errorf("los nombres vacíos no cuentan como opción")
		}
	})

	t.Run("Sin opciones invalida con conjunto vacío", func(t *testing.T) {
		preguntas := []models.Pregunta{preguntaConOpciones("Balance")}
		status, invalid := ValidateQuestions(preguntas)
		if status != StatusError || len(invalid) != 1 {
			t.Fatalf("sin opciones la pregunta es inválida")
		}
		if len(invalid[0].OptionsFound) != 0 {
			t.Errorf("options_found debía quedar vacío: %v", invalid[0].OptionsFound)
		}
	})
}

func TestValidateQuestionsJSON(t *testing.T) {
	t.Run("Payload que no es lista devuelve error estructural", func(t *testing.T) {
		status, invalid := ValidateQuestionsJSON([]byte(`{"name": "no soy lista"}`))
		if status != StatusError || len(invalid) != 1 {
			t.Fatalf("se esperaba el error estructural: status=%q invalid=%+v", status, invalid)
		}
		if invalid[0].Name != "[Estructura Inválida]" {
			t.Errorf("entrada estructural incorrecta: %+v", invalid[0])
		}
	})

	t.Run("Item que no es objeto se reporta y no corta la validación", func(t *testing.T) {
		payload := `[
			"soy un string",
			{"name": "Balance", "options": [{"name": "Apruebo"}, {"name": "Rechazo"}, {"name": "Abstención"}]}
		]`
		status, invalid := ValidateQuestionsJSON([]byte(payload))
		if status != StatusError || len(invalid) != 1 {
			t.Fatalf("solo el item inválido debe reportarse: %+v", invalid)
		}
		if invalid[0].Name != "[Item Inválido]" {
			t.Errorf("entrada inesperada: %+v", invalid[0])
		}
	})

	t.Run("Opciones que no son lista se reportan por nombre", func(t *testing.T) {
		payload := `[{"name": "Balance", "options": "apruebo,rechazo"}]`
		status, invalid := ValidateQuestionsJSON([]byte(payload))
		if status != StatusError || len(invalid) != 1 {
			t.Fatalf("se esperaba la entrada de formato de opciones: %+v", invalid)
		}
		if invalid[0].Name != "Balance" {
			t.Errorf("la entrada debe nombrar la pregunta: %+v", invalid[0])
		}
	})

	t.Run("Lista válida devuelve ok", func(t *testing.T) {
		payload := `[{"name": "Balance", "options": [{"name": "Apruebo"}, {"name": "Rechazo"}, {"name": "Abstención"}], "config": {"secret": false}}]`
		status, invalid := ValidateQuestionsJSON([]byte(payload))
		if status != StatusOK || len(invalid) != 0 {
			t.Errorf("payload válido: status=%q invalid=%+v", status, invalid)
		}
	})
}

func TestEsEleccionDirectorio(t *testing.T) {
	tests := []struct {
		titulo   string
		esperado bool
	}{
		{"Elección de Directores", true},
		{"eleccion de directorio", true},
		{"Designación de Directores", true},
		{"DESIGNACION DE DIRECTORIO", true},
		{"Elección de auditores externos", false},
		{"Renovación del directorio", false},
		{"Aprobación de la memoria", false},
	}

	for _, test := range tests {
		if got := EsEleccionDirectorio(test.titulo); got != test.esperado {
			t.Errorf("EsEleccionDirectorio(%q) = %v; se esperaba %v", test.titulo, got, test.esperado)
		}
	}
}
