package postgres

import "strings"

// jsonOrEmpty maps a blank result to "{}" so the JSONB column always parses
func jsonOrEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "{}"
	}
	return s
}
