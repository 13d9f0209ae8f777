package browser

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// CamposAdicionales son los datos extra de usuario que toda organización
// nueva lleva de fábrica.
var CamposAdicionales = []CampoAdicional{
	{Nombre: "Apellido", Tipo: "texto"},
	{Nombre: "Sexo", Tipo: "texto"},
	{Nombre: "Región", Tipo: "texto"},
	{Nombre: "Provincia", Tipo: "texto"},
	{Nombre: "Comuna", Tipo: "texto"},
	{Nombre: "RSU/RAF", Tipo: "numero"},
}

// CampoAdicional es un campo de datos de usuario del formulario.
type CampoAdicional struct {
	Nombre string
	Tipo   string // "texto" o "numero"
}

// OrganizacionNueva describe la organización a crear en el formulario.
type OrganizacionNueva struct {
	Nombre string
	Padre  string // nombre de la organización padre, puede venir con "[id]"
}

// CreateOrganization navega al formulario de alta y lo completa: nombre,
// organización padre vía autocomplete, switches de pago, campos
// adicionales y envío final.
func (m *SessionManager) CreateOrganization(addURL string, org OrganizacionNueva) error {
	page, err := m.newPage(addURL)
	if err != nil {
		return err
	}
	defer page.Close()

	page = page.Timeout(m.cfg.NavigationTimeout)
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("error cargando el formulario de creación: %w", err)
	}
	if _, err := page.ElementR("h4", "Crear nueva organización"); err != nil {
		return fmt.Errorf("no se encontró el encabezado del formulario de creación: %w", err)
	}

	log.Printf("Rellenando Nombre de la organización: %s", org.Nombre)
	nameInput, err := page.Element("#name")
	if err != nil {
		return fmt.Errorf("no se encontró el campo de nombre: %w", err)
	}
	if err := nameInput.Input(org.Nombre); err != nil {
		return fmt.Errorf("error ingresando el nombre: %w", err)
	}

	if org.Padre != "" {
		if err := m.seleccionarPadre(page, org.Padre); err != nil {
			return err
		}
	}

	for _, etiqueta := range []string{"Descarga de usuarios", "Gráficos personalizados"} {
		if err := activarSwitch(page, etiqueta); err != nil {
			return fmt.Errorf("error configurando el switch %q: %w", etiqueta, err)
		}
	}

	for _, campo := range CamposAdicionales {
		if err := m.agregarCampoAdicional(page, campo); err != nil {
			return fmt.Errorf("error añadiendo el campo %q: %w", campo.Nombre, err)
		}
	}

	return m.enviarFormulario(page, org.Nombre)
}

// seleccionarPadre busca la organización padre en el autocomplete de MUI
// y elige la primera opción del desplegable.
func (m *SessionManager) seleccionarPadre(page *rod.Page, padre string) error {
	// El nombre puede venir con el id entre corchetes: "ANEF [9snl2kce]".
	termino := strings.TrimSpace(strings.SplitN(padre, "[", 2)[0])
	log.Printf("Rellenando Organización padre: buscando '%s' (original: '%s')", termino, padre)

	busqueda, err := page.Element(`.MuiAutocomplete-root input[type="text"]`)
	if err != nil {
		return fmt.Errorf("no se encontró el autocomplete de organización padre: %w", err)
	}
	if err := busqueda.Input(termino); err != nil {
		return fmt.Errorf("error escribiendo en el autocomplete: %w", err)
	}

	const intentos = 3
	for intento := 1; intento <= intentos; intento++ {
		opcion, err := page.Timeout(10 * time.Second).Element(`ul[role="listbox"] li`)
		if err == nil {
			texto, _ := opcion.Text()
			log.Printf("Opción encontrada en desplegable: '%s'. Haciendo clic...", texto)
			if err := opcion.Click(proto.InputMouseButtonLeft, 1); err != nil {
				return fmt.Errorf("error seleccionando la organización padre: %w", err)
			}
			return nil
		}
		log.Printf("Intento %d/%d: sin opciones para '%s'. Reescribiendo el último carácter...", intento, intentos, termino)
		// Borrar y re-escribir el último carácter fuerza al autocomplete a
		// repetir la búsqueda cuando el desplegable no apareció.
		if len(termino) > 0 {
			_ = busqueda.Type(input.Backspace)
			_ = busqueda.Input(termino[len(termino)-1:])
		}
	}
	return fmt.Errorf("no se pudo seleccionar la organización padre '%s' después de %d intentos", termino, intentos)
}

// activarSwitch enciende un switch de MUI si no está ya activo.
func activarSwitch(page *rod.Page, etiqueta string) error {
	label, err := page.ElementR("label", etiqueta)
	if err != nil {
		return fmt.Errorf("switch no encontrado: %w", err)
	}
	checkbox, err := label.Element(`input[type="checkbox"]`)
	if err != nil {
		return fmt.Errorf("checkbox del switch no encontrado: %w", err)
	}

	activo, err := checkbox.Property("checked")
	if err != nil {
		return err
	}
	if activo.Bool() {
		log.Printf("Switch '%s' ya está activo.", etiqueta)
		return nil
	}
	log.Printf("Switch '%s' no está activo. Haciendo clic para activar...", etiqueta)
	return label.Click(proto.InputMouseButtonLeft, 1)
}

// agregarCampoAdicional hace clic en "Tipo texto"/"Tipo número", nombra el
// campo recién creado y activa "Mostrar al usuario".
func (m *SessionManager) agregarCampoAdicional(page *rod.Page, campo CampoAdicional) error {
	log.Printf("Añadiendo campo adicional: '%s' (Tipo: %s)", campo.Nombre, campo.Tipo)

	textoBoton := "Tipo texto"
	if campo.Tipo == "numero" {
		textoBoton = "Tipo número"
	}
	boton, err := page.ElementR("button", textoBoton)
	if err != nil {
		return fmt.Errorf("botón %q no encontrado: %w", textoBoton, err)
	}
	if err := boton.ScrollIntoView(); err != nil {
		return err
	}
	if err := boton.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("error haciendo clic en %q: %w", textoBoton, err)
	}

	// Los campos se apilan; el último input "Nombre del dato" es el recién
	// añadido.
	inputs, err := page.Timeout(10 * time.Second).Elements(`input[name="additionalFieldName"]`)
	if err != nil || len(inputs) == 0 {
		// Formularios antiguos no nombran el input; caer al último input
		// requerido de texto.
		inputs, err = page.Elements(`.MuiCard-root input[type="text"][required]`)
		if err != nil || len(inputs) == 0 {
			return fmt.Errorf("no se encontró el campo 'Nombre del dato'")
		}
	}
	nombreInput := inputs[len(inputs)-1]
	if err := nombreInput.Input(campo.Nombre); err != nil {
		return fmt.Errorf("error ingresando el nombre del dato: %w", err)
	}

	if err := activarSwitch(page, "Mostrar al usuario"); err != nil {
		return err
	}
	log.Printf("Campo adicional '%s' añadido y configurado.", campo.Nombre)
	return nil
}

// enviarFormulario hace clic en "Agregar" y confirma el alta por
// redirección al listado o por el mensaje de éxito en la página.
func (m *SessionManager) enviarFormulario(page *rod.Page, nombre string) error {
	log.Printf("Intentando enviar el formulario para la organización: %s", nombre)
	submit, err := page.ElementR(`button[type="submit"]`, "Agregar")
	if err != nil {
		return fmt.Errorf("no se encontró el botón 'Agregar': %w", err)
	}
	if err := submit.ScrollIntoView(); err != nil {
		return err
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("error haciendo clic en 'Agregar': %w", err)
	}
	log.Printf("Botón 'Agregar' clickeado.")

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		info, err := page.Info()
		if err == nil && strings.Contains(info.URL, "/admin/organizations") && !strings.Contains(info.URL, "/add") {
			log.Printf("Redirección a '%s' detectada. Organización '%s' creada.", info.URL, nombre)
			return nil
		}
		if has, alerta, _ := page.HasR(`[role="alert"]`, "creada|éxito|correctamente"); has {
			texto, _ := alerta.Text()
			log.Printf("Mensaje de éxito encontrado: '%s'. Organización '%s' creada.", texto, nombre)
			return nil
		}
		time.Sleep(time.Second)
	}
	return fmt.Errorf("sin confirmación de creación para la organización '%s'", nombre)
}
