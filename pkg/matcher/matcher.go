// Package matcher implementa la heurística de equivalencia entre la
// respuesta enviada por el usuario y la respuesta autoritativa del quiz.
//
// Es una heurística de cuatro reglas, no una comparación estructural:
// puede dar falsos positivos (dos opciones que comparten inicial, o una
// opción contenida en el texto de otra). Ese comportamiento se conserva
// tal cual y está cubierto por tests adversariales.
package matcher

import "strings"

// Rule una regla de equivalencia con nombre, para poder probar y
// sustituir cada regla de forma independiente
type Rule struct {
	Name  string
	Apply func(submitted, authoritative string) bool
}

// Rules tabla ordenada de reglas. El orden es fijo: el resultado booleano
// no depende de él, pero MatchedRule reporta la primera que aplica.
var Rules = []Rule{
	{
		// igualdad exacta después de recortar espacios
		Name: "exact",
		Apply: func(submitted, authoritative string) bool {
			return submitted == authoritative
		},
	},
	{
		// la respuesta enviada es el prefijo de etiqueta "X) " de la autoritativa
		Name: "labelPrefix",
		Apply: func(submitted, authoritative string) bool {
			return submitted == firstRunes(authoritative, 3)
		},
	},
	{
		// la respuesta enviada es solo la letra inicial de la autoritativa
		Name: "firstLetter",
		Apply: func(submitted, authoritative string) bool {
			return submitted == firstRunes(authoritative, 1)
		},
	},
	{
		// la autoritativa contiene la enviada como subcadena; solo para
		// respuestas de más de 3 caracteres (texto completo de la opción)
		Name: "substring",
		Apply: func(submitted, authoritative string) bool {
			return len([]rune(submitted)) > 3 && strings.Contains(authoritative, submitted)
		},
	},
}

// Matches decide si la respuesta enviada equivale a la autoritativa.
// Ambas entradas se recortan antes de comparar. Una respuesta vacía
// nunca equivale a nada.
func Matches(submitted, authoritative string) bool {
	_, ok := MatchedRule(submitted, authoritative)
	return ok
}

// MatchedRule devuelve el nombre de la primera regla que aplica y true,
// o "" y false si ninguna aplica
func MatchedRule(submitted, authoritative string) (string, bool) {
	s := strings.TrimSpace(submitted)
	a := strings.TrimSpace(authoritative)

	if s == "" {
		return "", false
	}

	for _, rule := range Rules {
		if rule.Apply(s, a) {
			return rule.Name, true
		}
	}

	return "", false
}

// firstRunes devuelve los primeros n caracteres (runas) de s, o s entera
// si es más corta
func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
