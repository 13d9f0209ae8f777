// Comando crear-organizaciones recorre la planilla de Google configurada
// y crea en la plataforma las organizaciones pendientes, escribiendo el
// resultado de vuelta en la planilla. Pensado para correrse a mano antes
// de una tanda de juntas.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/evoting-cl/revisor-juntas/internal/browser"
	"github.com/evoting-cl/revisor-juntas/internal/config"
	"github.com/evoting-cl/revisor-juntas/internal/services"
	"github.com/evoting-cl/revisor-juntas/internal/sheets"
)

func main() {
	var (
		sheetName = flag.String("sheet", "", "Nombre de la hoja (default: SHEET_NAME del entorno)")
		headless  = flag.Bool("headless", true, "Correr el navegador en modo headless")
	)
	flag.Parse()

	cfg := config.LoadConfig()
	if *sheetName != "" {
		cfg.SheetName = *sheetName
	}
	cfg.HeadlessMode = *headless

	if cfg.SpreadsheetID == "" {
		log.Fatal("SPREADSHEET_URL_OR_ID no está configurado")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hoja, err := sheets.NewClient(ctx, cfg.GoogleCredentialsFile, cfg.SpreadsheetID, cfg.SheetName)
	if err != nil {
		log.Fatalf("Error inicializando el cliente de Sheets: %v", err)
	}

	browserCfg := browser.DefaultConfig()
	browserCfg.Headless = cfg.HeadlessMode
	sessionManager := browser.NewSessionManager(browserCfg)
	defer sessionManager.Shutdown()

	runner := services.NewOrganizationService(cfg, sessionManager, hoja)
	resumen, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("La corrida terminó con error: %v", err)
	}

	fmt.Printf("\nResumen de la corrida:\n")
	fmt.Printf("  Procesadas: %d\n", resumen.Procesadas)
	fmt.Printf("  Creadas:    %d\n", resumen.Creadas)
	fmt.Printf("  Errores:    %d\n", resumen.Errores)
	fmt.Printf("  Omitidas:   %d\n", resumen.Omitidas)
	for _, detalle := range resumen.Detalle {
		fmt.Printf("  - Fila %d (%s): %s\n", detalle.Fila, detalle.Nombre, detalle.Estado)
	}

	if resumen.Errores > 0 {
		os.Exit(1)
	}
}
