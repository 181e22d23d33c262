// Package validation agrupa las reglas de formato de slugs de tenant y de
// identificadores de usuario.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Slug de tenant:
// - minúsculas, dígitos y guiones
// - empieza y termina en [a-z0-9]
// - 1..64 caracteres
var tenantSlugRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,62}[a-z0-9])?$`)

// Email mínimo: algo@dominio.tld, sin espacios.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidTenantSlug indica si s puede ser el slug de un restaurante.
func ValidTenantSlug(s string) bool {
	return tenantSlugRe.MatchString(s)
}

// ValidEmail valida el formato de un email.
func ValidEmail(s string) bool {
	return len(s) <= 254 && emailRe.MatchString(s)
}

// MaskIdentifier oculta un email o username para logs:
// "ana.perez@trattoria.com" -> "a…@t….com", "cajero01" -> "c…1".
// Corta por runas, nunca por bytes.
func MaskIdentifier(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	at := strings.IndexByte(s, '@')
	if at <= 0 {
		r := []rune(s)
		if len(r) <= 3 {
			return "***"
		}
		return string(r[0]) + "…" + string(r[len(r)-1])
	}
	user, domain := s[:at], s[at+1:]
	labels := strings.Split(domain, ".")
	labels[0] = firstRune(labels[0])
	return firstRune(user) + "@" + strings.Join(labels, ".")
}

// firstRune deja la primera runa seguida de "…" si s tiene más de una.
func firstRune(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == len(s) {
		return s
	}
	return string(r) + "…"
}
