package mysql

import "strings"

// jsonOrEmpty returns "{}" when the input is empty/whitespace; the result column is JSON
func jsonOrEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "{}"
	}
	return s
}
