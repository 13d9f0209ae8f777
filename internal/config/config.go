// Package config gestiona la configuración de la aplicación vía variables de entorno.
//
// # Variables de Entorno
//
// ## Plataforma EVoting
//   - EVOTING_BASE_URL: URL base de la plataforma de administración (default: https://eholders-mgnt.evoting.com)
//   - ESOCIOS_BASE_URL: URL base de E-Socios para la creación de organizaciones (default: https://esocios.evoting.com)
//   - EVOTING_USERNAME: Usuario de la plataforma
//   - EVOTING_PASSWORD: Contraseña de la plataforma
//   - HEADLESS_MODE: Navegador en modo headless (default: true)
//
// ## Gemini
//   - GEMINI_API_KEY: Clave de la API Google Gemini
//   - GEMINI_MODEL: Modelo para extracción de documentos (default: gemini-2.0-flash)
//
// ## Typesense (archivo de informes)
//   - TYPESENSE_HOST: Host del servidor Typesense (default: localhost)
//   - TYPESENSE_PORT: Puerto del servidor (default: 8108)
//   - TYPESENSE_API_KEY: Clave de API
//   - TYPESENSE_PROTOCOL: Protocolo http/https (default: http)
//   - TYPESENSE_INFORMES_COLLECTION: Colección del archivo de informes (default: informes_revision)
//
// ## Google Sheets
//   - SPREADSHEET_URL_OR_ID: ID de la planilla con los slugs a crear
//   - SHEET_NAME: Nombre de la hoja (default: Slugs)
//   - GOOGLE_CREDENTIALS_FILE: Credenciales de servicio (default: credentials.json)
//
// ## Varios
//   - SERVER_PORT: Puerto HTTP (default: 8080)
//   - REPORTS_DIR: Directorio de informes (default: reports)
//   - UPLOAD_DIR: Directorio temporal de cargas (default: data/uploads)
//   - ALLOWED_EXTENSIONS: Extensiones de carga permitidas (default: pdf,png,jpg,jpeg,txt,json)
//   - ALTERNATIVE_HOSTS: Roster de anfitriones alternativos, separado por comas (default: roster interno)
//   - TRACING_ENABLED / TRACING_ENDPOINT: Exportador OTLP (default: false / localhost:4317)
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/evoting-cl/revisor-juntas/internal/constants"
)

type Config struct {
	ServerPort string

	// Plataforma de administración de juntas
	EvotingBaseURL  string
	EsociosBaseURL  string
	EvotingUsername string
	EvotingPassword string
	HeadlessMode    bool

	// Gemini configuration
	GeminiAPIKey string
	GeminiModel  string

	// Typesense (archivo de informes)
	TypesenseHost               string
	TypesensePort               string
	TypesenseAPIKey             string
	TypesenseProtocol           string
	TypesenseInformesCollection string

	// Google Sheets (runner de organizaciones)
	SpreadsheetID         string
	SheetName             string
	GoogleCredentialsFile string

	// Tracing configuration
	TracingEnabled  bool
	TracingEndpoint string

	// Archivos y cargas
	ReportsDir        string
	UploadDir         string
	AllowedExtensions map[string]struct{}

	// Roster de anfitriones alternativos de Zoom
	AlternativeHosts []string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		EvotingBaseURL:  getEnv("EVOTING_BASE_URL", "https://eholders-mgnt.evoting.com"),
		EsociosBaseURL:  getEnv("ESOCIOS_BASE_URL", "https://esocios.evoting.com"),
		EvotingUsername: getEnv("EVOTING_USERNAME", ""),
		EvotingPassword: getEnv("EVOTING_PASSWORD", ""),
		HeadlessMode:    getEnvBool("HEADLESS_MODE", true),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		TypesenseHost:               getEnv("TYPESENSE_HOST", "localhost"),
		TypesensePort:               getEnv("TYPESENSE_PORT", "8108"),
		TypesenseAPIKey:             getEnv("TYPESENSE_API_KEY", ""),
		TypesenseProtocol:           getEnv("TYPESENSE_PROTOCOL", "http"),
		TypesenseInformesCollection: getEnv("TYPESENSE_INFORMES_COLLECTION", "informes_revision"),

		SpreadsheetID:         getEnv("SPREADSHEET_URL_OR_ID", ""),
		SheetName:             getEnv("SHEET_NAME", "Slugs"),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),

		TracingEnabled:  getEnvBool("TRACING_ENABLED", false),
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4317"),

		ReportsDir: getEnv("REPORTS_DIR", "reports"),
		UploadDir:  getEnv("UPLOAD_DIR", "data/uploads"),
	}

	cfg.AllowedExtensions = parseExtensions(getEnv("ALLOWED_EXTENSIONS", "pdf,png,jpg,jpeg,txt,json"))
	cfg.AlternativeHosts = parseHosts(getEnv("ALTERNATIVE_HOSTS", ""))

	if cfg.EvotingUsername == "" || cfg.EvotingPassword == "" {
		log.Println("EVOTING_USERNAME o EVOTING_PASSWORD no están configurados; la obtención de datos de la plataforma fallará.")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY no está configurado; la extracción de documentos fallará.")
	}

	for _, dir := range []string{cfg.ReportsDir, cfg.UploadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("No se pudo crear el directorio %s: %v", dir, err)
		}
	}

	return cfg
}

func parseExtensions(csv string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, ext := range strings.Split(csv, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			out[ext] = struct{}{}
		}
	}
	return out
}

// parseHosts devuelve el roster configurado o el roster interno por
// defecto si la variable está vacía.
func parseHosts(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return constants.DefaultAlternativeHosts
	}
	var hosts []string
	for _, h := range strings.Split(csv, ",") {
		h = strings.TrimSpace(h)
		if h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
