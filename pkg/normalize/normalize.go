// Package normalize limpia nombres de datos maestros para compararlos sin importar
// mayúsculas, espacios repetidos ni la forma de codificar los acentos.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var fold = cases.Fold()

// Name recorta y colapsa espacios internos, y lleva el texto a NFC. Es la forma que se guarda.
func Name(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// Key forma canónica para unicidad: Name + case folding. "  Café " y "CAFÉ" comparten clave.
func Key(s string) string {
	return fold.String(Name(s))
}

// Equal compara dos nombres por su clave canónica.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}
