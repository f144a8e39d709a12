// Package textutil provides small text-shaping helpers shared by the CLI and
// renderers.
package textutil

import "strings"

// SanitizeFileName reduces an arbitrary identifier to a safe file-name token:
// ASCII letters, digits, dot, dash, and underscore survive; everything else
// collapses to a single dash. League identifiers come from external systems
// and are not trusted as path components.
func SanitizeFileName(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
			lastDash = r == '-'
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	cleaned := strings.Trim(b.String(), "-.")
	if cleaned == "" {
		return "unnamed"
	}
	return cleaned
}
