package csvline

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Escaper re-encodes a value as a CSV field.
type Escaper func(value string) string

// Escape quotes value when a quote or comma appears after its first
// character, doubling every embedded quote.
//
// A quote or comma at index 0 alone does not trigger quoting. Existing
// consumers of the report rely on this output byte for byte; use
// EscapeStrict for a value that may start with either character.
func Escape(value string) string {
	if !containsAfterFirst(value) {
		return value
	}
	return quote(value)
}

// EscapeStrict quotes value when it contains a quote or comma anywhere.
func EscapeStrict(value string) string {
	if !strings.ContainsAny(value, `",`) {
		return value
	}
	return quote(value)
}

// ParseEscaper maps a config name to an Escaper. The empty name means legacy.
func ParseEscaper(name string) (Escaper, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "legacy":
		return Escape, nil
	case "strict":
		return EscapeStrict, nil
	default:
		return nil, eris.Errorf("csvline: unknown escape mode %q (want legacy or strict)", name)
	}
}

// containsAfterFirst reports whether a quote or comma occurs at byte index >= 1.
func containsAfterFirst(value string) bool {
	return len(value) > 1 && strings.ContainsAny(value[1:], `",`)
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
