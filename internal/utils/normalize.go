package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// QuitarAcentos elimina acentos y diacríticos de un texto y lo pasa a
// minúsculas. Ejemplo: "Elección" -> "eleccion", "Designación" ->
// "designacion". Se usa para detectar sinónimos sin depender de cómo
// venga tildado el título.
func QuitarAcentos(texto string) string {
	if texto == "" {
		return texto
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	normalizado, _, _ := transform.String(t, texto)

	return strings.ToLower(normalizado)
}
