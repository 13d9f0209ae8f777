// Package browser maneja la sesión de navegador contra la plataforma:
// login con credenciales, captura de cookies para el cliente de API y la
// automatización del formulario de creación de organizaciones.
package browser

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Config controla el navegador subyacente.
type Config struct {
	Headless          bool
	ViewportWidth     int
	ViewportHeight    int
	NavigationTimeout time.Duration
}

// DefaultConfig devuelve valores razonables para correr en servidor.
func DefaultConfig() Config {
	return Config{
		Headless:          true,
		ViewportWidth:     1920,
		ViewportHeight:    1080,
		NavigationTimeout: 30 * time.Second,
	}
}

// SessionManager posee la instancia de Chrome y reparte páginas.
type SessionManager struct {
	cfg     Config
	mu      sync.Mutex
	browser *rod.Browser
}

// NewSessionManager crea el manager sin lanzar el navegador todavía.
func NewSessionManager(cfg Config) *SessionManager {
	if cfg.NavigationTimeout == 0 {
		cfg.NavigationTimeout = DefaultConfig().NavigationTimeout
	}
	return &SessionManager{cfg: cfg}
}

// Start lanza Chrome y se conecta, reutilizando la instancia si sigue viva.
func (m *SessionManager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		if _, err := m.browser.Version(); err == nil {
			return nil
		}
		log.Printf("Conexión de navegador obsoleta detectada, reconectando...")
		_ = m.browser.Close()
		m.browser = nil
	}

	controlURL, err := launcher.New().Headless(m.cfg.Headless).Launch()
	if err != nil {
		return fmt.Errorf("error lanzando chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("error conectando a chrome: %w", err)
	}

	m.browser = browser
	return nil
}

// Shutdown cierra el navegador.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser == nil {
		return nil
	}
	err := m.browser.Close()
	m.browser = nil
	return err
}

// newPage abre una página con el viewport configurado.
func (m *SessionManager) newPage(url string) (*rod.Page, error) {
	m.mu.Lock()
	browser := m.browser
	m.mu.Unlock()
	if browser == nil {
		return nil, fmt.Errorf("navegador no conectado")
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("error creando página: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             m.cfg.ViewportWidth,
		Height:            m.cfg.ViewportHeight,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		log.Printf("Advertencia: no se pudo fijar el viewport: %v", err)
	}
	return page, nil
}

// Login navega a la página de inicio de sesión, ingresa las credenciales
// y devuelve las cookies de la sesión autenticada para el cliente de API.
func (m *SessionManager) Login(ctx context.Context, loginURL, username, password string) (map[string]string, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("se requieren credenciales de inicio de sesión")
	}
	if err := m.Start(ctx); err != nil {
		return nil, err
	}

	log.Printf("Iniciando proceso de login en %s con usuario: %s", loginURL, username)
	page, err := m.newPage(loginURL)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	page = page.Timeout(m.cfg.NavigationTimeout)
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("error cargando la página de login: %w", err)
	}

	// Algunas UIs muestran primero un botón "Ingresar" antes del formulario.
	if has, botonIngresar, _ := page.HasR("button", "Ingresar"); has {
		log.Printf("Campo username no visible. Haciendo clic en 'Ingresar' inicial...")
		if err := botonIngresar.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return nil, fmt.Errorf("error haciendo clic en 'Ingresar': %w", err)
		}
	}

	usernameInput, err := page.Element(`input[name="username"]`)
	if err != nil {
		return nil, fmt.Errorf("no se encontró el campo username: %w", err)
	}
	if err := usernameInput.Input(username); err != nil {
		return nil, fmt.Errorf("error ingresando username: %w", err)
	}

	passwordInput, err := page.Element(`input[name="password"]`)
	if err != nil {
		return nil, fmt.Errorf("no se encontró el campo password: %w", err)
	}
	if err := passwordInput.Input(password); err != nil {
		return nil, fmt.Errorf("error ingresando password: %w", err)
	}

	submit, err := page.Element(`button[type="submit"]`)
	if err != nil {
		return nil, fmt.Errorf("no se encontró el botón de login: %w", err)
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, fmt.Errorf("error haciendo clic en el botón de login: %w", err)
	}

	if err := m.waitLoggedIn(page, loginURL); err != nil {
		return nil, err
	}

	cookies, err := page.Cookies(nil)
	if err != nil {
		return nil, fmt.Errorf("error obteniendo cookies de la sesión: %w", err)
	}
	sesion := make(map[string]string, len(cookies))
	for _, c := range cookies {
		sesion[c.Name] = c.Value
	}
	log.Printf("Login exitoso. Formateadas %d cookies para el cliente de API.", len(sesion))
	return sesion, nil
}

// waitLoggedIn espera a que la URL salga de la página de login. Rutas con
// palabras de autenticación (callback, sso) cuentan como intermedias.
func (m *SessionManager) waitLoggedIn(page *rod.Page, loginURL string) error {
	deadline := time.Now().Add(m.cfg.NavigationTimeout)
	for time.Now().Before(deadline) {
		info, err := page.Info()
		if err == nil && sesionActiva(info.URL, loginURL) {
			log.Printf("Sesión activa detectada en URL: %s", info.URL)
			return nil
		}
		if err == nil {
			log.Printf("[Esperando Login] URL: %s", info.URL)
		}
		time.Sleep(2 * time.Second)
	}
	return fmt.Errorf("login falló: la URL no salió de la página de autenticación")
}

func sesionActiva(currentURL, loginURL string) bool {
	if currentURL == "" || !strings.HasPrefix(currentURL, "http") {
		return false
	}
	if strings.TrimSuffix(currentURL, "/") == strings.TrimSuffix(loginURL, "/") {
		return false
	}
	lower := strings.ToLower(currentURL)
	for _, keyword := range []string{"login", "signin", "auth", "sso", "callback", "logout", "error"} {
		if strings.Contains(lower, keyword) {
			return false
		}
	}
	return true
}
