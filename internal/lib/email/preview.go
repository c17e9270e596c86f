package email

// PreviewData contains sample template data for local preview/testing.
//
// It maps:
//
//	templateName -> (templateVariableName -> exampleValue)
//
// Example:
//
//	PreviewData["new_contact"]["Name"] == "Ada Lovelace"
var PreviewData = map[Template]map[string]string{
	TemplateNewContact: {
		"PartnerID": "42",
		"Name":      "Ada Lovelace",
		"Phone":     "+33 6 12 34 56 78",
		"Email":     "ada@example.org",
		"Country":   "France",
		"Comment":   "Bonjour\n\n---\nCentres d'intérêt : jazz, tennis",
	},
}
