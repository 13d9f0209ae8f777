package main

import (
	"log"

	_ "github.com/evoting-cl/revisor-juntas/docs"
	"github.com/evoting-cl/revisor-juntas/internal/api/routes"
	"github.com/evoting-cl/revisor-juntas/internal/config"
	"github.com/evoting-cl/revisor-juntas/internal/observability"
)

// @title           Revisor de Juntas API
// @version         1.0
// @description     API para la revisión automatizada de configuraciones de juntas de accionistas: compara la configuración viva de la plataforma contra la esperada según los documentos de la junta.

// @contact.name   EVoting
// @contact.url    https://evoting.com

// @host      localhost:8080

func main() {

	cfg := config.LoadConfig()

	observability.InitTracer(cfg)
	defer observability.ShutdownTracer()

	r := routes.SetupRouter(cfg)

	log.Printf("Servidor iniciado en el puerto %s", cfg.ServerPort)
	err := r.Run(":" + cfg.ServerPort)
	if err != nil {
		log.Fatalf("Error al iniciar el servidor: %v", err)
	}
}
