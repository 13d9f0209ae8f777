package routes

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"google.golang.org/genai"

	"github.com/evoting-cl/revisor-juntas/internal/api/handlers"
	"github.com/evoting-cl/revisor-juntas/internal/archive"
	"github.com/evoting-cl/revisor-juntas/internal/browser"
	"github.com/evoting-cl/revisor-juntas/internal/config"
	"github.com/evoting-cl/revisor-juntas/internal/extraction"
	middlewares "github.com/evoting-cl/revisor-juntas/internal/middleware"
	"github.com/evoting-cl/revisor-juntas/internal/services"
	"github.com/evoting-cl/revisor-juntas/internal/sheets"
)

// SetupRouter arma los colaboradores y registra todas las rutas.
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(corsMiddleware())
	r.Use(middlewares.RequestTiming())

	ctx := context.Background()

	var archiveClient *archive.Client
	if cfg.TypesenseAPIKey != "" {
		archiveClient = archive.NewClient(cfg)
		if err := archiveClient.EnsureCollection(ctx); err != nil {
			log.Printf("No se pudo preparar la colección del archivo de informes: %v", err)
		}
	} else {
		log.Printf("TYPESENSE_API_KEY no configurado; el archivo de informes queda deshabilitado.")
	}

	var geminiClient *genai.Client
	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: cfg.GeminiAPIKey,
		})
		if err != nil {
			log.Printf("Error inicializando el cliente Gemini: %v", err)
		} else {
			geminiClient = client
		}
	}
	extractor := extraction.NewExtractor(geminiClient, cfg.GeminiModel)

	browserCfg := browser.DefaultConfig()
	browserCfg.Headless = cfg.HeadlessMode
	sessionManager := browser.NewSessionManager(browserCfg)

	reportService := services.NewReportService(cfg.ReportsDir, archiveClient)
	verificationService := services.NewVerificationService(cfg, sessionManager, extractor, reportService)

	var organizationService *services.OrganizationService
	if cfg.SpreadsheetID != "" {
		hoja, err := sheets.NewClient(ctx, cfg.GoogleCredentialsFile, cfg.SpreadsheetID, cfg.SheetName)
		if err != nil {
			log.Printf("No se pudo inicializar el cliente de Sheets: %v", err)
		} else {
			organizationService = services.NewOrganizationService(cfg, sessionManager, hoja)
		}
	}

	revisionHandler := handlers.NewRevisionHandler(cfg, verificationService)
	informesHandler := handlers.NewInformesHandler(reportService, archiveClient)
	validationHandler := handlers.NewValidationHandler()
	organizationHandler := handlers.NewOrganizationHandler(organizationService)
	healthHandler := handlers.NewHealthHandler(archiveClient, extractor)

	api := r.Group("/api/v1")
	{
		api.POST("/revisiones", revisionHandler.StartRevision)
		api.GET("/revisiones/:task_id", revisionHandler.GetRevision)

		api.GET("/informes", informesHandler.ListInformes)
		api.GET("/informes/:filename", informesHandler.GetInforme)
		api.GET("/informes/:filename/html", informesHandler.GetInformeHTML)
		api.DELETE("/informes/:filename", informesHandler.DeleteInforme)
		api.GET("/informes-buscar", informesHandler.SearchInformes)

		api.POST("/validar-preguntas", validationHandler.ValidateQuestions)
		api.GET("/validar-slug/:slug", validationHandler.ValidateSlug)

		api.POST("/organizaciones", organizationHandler.CreateOrganizations)
	}

	r.GET("/health", healthHandler.Health)
	r.GET("/liveness", healthHandler.Liveness)
	r.GET("/readiness", healthHandler.Readiness)
	r.GET("/version", handlers.GetVersion)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
