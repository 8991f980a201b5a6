package domain

import "strings"

// namePlaceholder is the only substitution the renderer performs. This
// is literal string replacement, not a templating language: unknown
// placeholders pass through verbatim and nothing is escaped.
const namePlaceholder = "{{name}}"

// RenderTemplate personalizes a message template for a recipient.
func RenderTemplate(template string, r Recipient) string {
	return strings.ReplaceAll(template, namePlaceholder, r.DisplayName())
}
