package utils

import (
	"log"
	"path/filepath"
	"strings"
	"time"
)

// AllowedFile verifica si el archivo tiene una extensión permitida según
// el conjunto configurado (sin punto, en minúsculas).
func AllowedFile(filename string, allowedExtensions map[string]struct{}) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok := allowedExtensions[ext]
	return ok
}

// formatosFecha son los formatos de fecha/hora vistos en la API y en la
// plataforma, en orden de probabilidad.
var formatosFecha = []string{
	"2006-01-02T15:04:05",
	"02/01/2006 a las 15:04:05",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"02-01-2006 15:04:05",
}

// ParseDatetime intenta parsear una fecha/hora en los formatos conocidos.
// Devuelve el cero de time.Time y false si ninguno calza.
func ParseDatetime(valor string) (time.Time, bool) {
	if valor == "" {
		return time.Time{}, false
	}
	for _, fmt := range formatosFecha {
		if t, err := time.Parse(fmt, valor); err == nil {
			return t, true
		}
	}
	log.Printf("No se pudo parsear la fecha: %s con los formatos conocidos.", valor)
	return time.Time{}, false
}

// SanitizeFilename reduce un nombre de archivo a su base, sin rutas, para
// impedir escapes del directorio de informes.
func SanitizeFilename(nombre string) string {
	return filepath.Base(strings.ReplaceAll(nombre, "\\", "/"))
}
