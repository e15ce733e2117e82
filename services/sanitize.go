package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// SanitizeText strips any markup from free-text input (observations,
// incidents, comments) before it is stored.
func SanitizeText(value string) string {
	return strings.TrimSpace(textPolicy.Sanitize(value))
}
