// Package render substitutes placeholder tokens into message templates.
// Substitution is deterministic string replacement; no inference or
// channel-specific escaping happens here.
package render

import "strings"

// Render replaces every occurrence of each declared {placeholder} in body
// with its bound value. Declared placeholders with no binding render as
// empty strings. Tokens that are not declared stay verbatim.
func Render(body string, placeholders []string, bindings map[string]string) string {
	for _, name := range placeholders {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		body = strings.ReplaceAll(body, token(name), bindings[name])
	}
	return body
}

func token(name string) string {
	return "{" + name + "}"
}
