package utils

import "github.com/microcosm-cc/bluemonday"

var (
	contentPolicy = bluemonday.UGCPolicy()
	strictPolicy  = bluemonday.StrictPolicy()
)

// Sanitize cleans user-generated HTML to prevent XSS while keeping basic markup.
func Sanitize(input string) string {
	return contentPolicy.Sanitize(input)
}

// SanitizeStrict strips all markup; used for titles and other plain-text fields.
func SanitizeStrict(input string) string {
	return strictPolicy.Sanitize(input)
}
