package comparison

import (
	"regexp"
	"strings"
	"unicode"
)

// prefijoOrdinal reconoce numeraciones iniciales como "1. " o "a) ".
var prefijoOrdinal = regexp.MustCompile(`^\s*[a-z0-9][.)]\s*`)

// puntuaciónASCII es la puntuación que se elimina al normalizar. Se
// conservan los guiones porque en los títulos suelen ser significativos.
const puntuacionASCII = "!\"#$%&'()*+,./:;<=>?@[\\]^_`{|}~"

// NormalizeTitle canonicaliza un título para comparaciones conceptuales:
// minúsculas, sin numeración inicial, sin puntuación ASCII (salvo guion)
// y con cualquier corrida de espacios (incluidos no estándar) colapsada
// a un espacio simple. Siempre devuelve un string, posiblemente vacío.
func NormalizeTitle(text string) string {
	text = strings.ToLower(text)
	text = prefijoOrdinal.ReplaceAllString(text, "")

	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(puntuacionASCII, r) {
			return -1
		}
		return r
	}, text)

	return strings.Join(strings.FieldsFunc(text, unicode.IsSpace), " ")
}
