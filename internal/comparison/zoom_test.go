package comparison

import (
	"testing"

	"github.com/evoting-cl/revisor-juntas/internal/models"
)

var rosterPrueba = []string{
	"op1@evoting.cl", "op2@evoting.cl", "op3@evoting.cl", "op4@evoting.cl",
	"op5@evoting.cl", "op6@evoting.cl", "op7@evoting.cl", "op8@evoting.cl",
	"op9@evoting.cl", "op10@evoting.cl",
}

func hostsDesde(emails []string) []models.AnfitrionAlternativo {
	hosts := make([]models.AnfitrionAlternativo, 0, len(emails))
	for _, e := range emails {
		hosts = append(hosts, models.AnfitrionAlternativo{Email: e})
	}
	return hosts
}

func TestValidateZoom(t *testing.T) {
	t.Run("Sin configuración de Zoom se omite", func(t *testing.T) {
		if diffs := ValidateZoom(nil, rosterPrueba); len(diffs) != 0 {
			t.Errorf("sin zoom no debe haber registros")
		}
	})

	t.Run("Sin host_email se omite", func(t *testing.T) {
		zoom := &models.ZoomConfig{AlternativeHosts: hostsDesde(rosterPrueba)}
		if diffs := ValidateZoom(zoom, rosterPrueba); len(diffs) != 0 {
			t.Errorf("sin host_email no se puede calcular la lista esperada")
		}
	})

	t.Run("Roster completo menos el host no alerta", func(t *testing.T) {
		zoom := &models.ZoomConfig{
			HostEmail:        rosterPrueba[0],
			AlternativeHosts: hostsDesde(rosterPrueba[1:]),
		}
		if diffs := ValidateZoom(zoom, rosterPrueba); len(diffs) != 0 {
			t.Errorf("roster completo no debe alertar: %+v", diffs)
		}
	})

	t.Run("Anfitrión faltante se reporta en faltantes", func(t *testing.T) {
		// host = roster[0]; presentes roster[1..8]; falta roster[9].
		zoom := &models.ZoomConfig{
			HostEmail:        rosterPrueba[0],
			AlternativeHosts: hostsDesde(rosterPrueba[1:9]),
		}
		diffs := ValidateZoom(zoom, rosterPrueba)
		if len(diffs) != 1 {
			t.Fatalf("se esperaba 1 registro, hay %d", len(diffs))
		}
		d := diffs[0]
		if d.Severity != models.SeverityWarning || d.Type != models.DiffFaltanAnfitriones {
			t.Errorf("registro inesperado: type=%q severity=%q", d.Type, d.Severity)
		}
		detalles, ok := d.Details.(map[string]interface{})
		if !ok {
			t.Fatalf("los detalles deben ser un mapa")
		}
		faltantes, ok := detalles["faltantes"].([]string)
		if !ok {
			t.Fatalf("faltantes ausente en los detalles")
		}
		if len(faltantes) != 1 || faltantes[0] != rosterPrueba[9] {
			t.Errorf("faltantes = %v; se esperaba [%s]", faltantes, rosterPrueba[9])
		}
	})

	t.Run("La exclusión del host no distingue mayúsculas", func(t *testing.T) {
		zoom := &models.ZoomConfig{
			HostEmail:        "OP1@EVOTING.CL",
			AlternativeHosts: hostsDesde(rosterPrueba[1:]),
		}
		if diffs := ValidateZoom(zoom, rosterPrueba); len(diffs) != 0 {
			t.Errorf("el host en mayúsculas debe excluirse igual: %+v", diffs)
		}
	})

	t.Run("Los emails actuales se comparan en minúsculas", func(t *testing.T) {
		zoom := &models.ZoomConfig{
			HostEmail:        rosterPrueba[0],
			AlternativeHosts: hostsDesde([]string{"OP2@evoting.cl", "op3@EVOTING.CL", "op4@evoting.cl", "op5@evoting.cl", "op6@evoting.cl", "op7@evoting.cl", "op8@evoting.cl", "op9@evoting.cl", "op10@evoting.cl"}),
		}
		if diffs := ValidateZoom(zoom, rosterPrueba); len(diffs) != 0 {
			t.Errorf("la comparación debe ser insensible a mayúsculas: %+v", diffs)
		}
	})
}
