package email

import "embed"

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateNewContact corresponds to templates/new_contact.html
	TemplateNewContact Template = "new_contact"
)

//go:embed templates/*.html
var templateFS embed.FS
