// Package constants reúne datos fijos de la operación: roster base de
// anfitriones alternativos de Zoom y las AFPs conocidas del registro de
// accionistas.
package constants

// DefaultAlternativeHosts es el roster base de operadores que deben
// figurar como anfitriones alternativos en toda junta, salvo quien actúe
// de anfitrión principal. Se inyecta al comparador en el arranque y puede
// sobreescribirse por configuración.
var DefaultAlternativeHosts = []string{
	"nvenegas@evoting.cl",
	"hgonzalez@evoting.cl",
	"nmolina@evoting.cl",
	"aparra@evoting.cl",
	"jantinao@evoting.cl",
	"hola@evoting.cl",
	"mrojas@evoting.cl",
	"fcavada@evoting.cl",
	"florca@evoting.cl",
	"administrador2@evoting.cl",
}

// KnownAFPIdentities mapea el RUT de cada administradora de fondos de
// pensiones conocida a su nombre comercial. Se usa para marcar registros
// de accionistas como AFP al unificar los datos de la plataforma.
var KnownAFPIdentities = map[string]string{
	"98000100-8": "AFP Habitat",
	"98000000-1": "AFP Provida",
	"98001000-7": "AFP Cuprum",
	"98000400-7": "AFP Capital",
	"76240079-0": "AFP Modelo",
	"98001200-K": "AFP Planvital",
	"76866370-9": "AFP Uno",
}
