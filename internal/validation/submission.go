package validation

import (
	"fmt"
	"strings"

	"github.com/deppfellow/odoo-bridge/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

const (
	msgInvalidPayload   = "Payload JSON invalide."
	msgRequiredField    = "Le champ '%s' est requis."
	msgEmailMissingAt   = "Le champ 'email' doit contenir un '@'."
	msgInterestsNotList = "Le champ 'interests' doit être une liste."
)

// requiredFields are checked in this order; errors follow the same order.
var requiredFields = []string{"name", "phone", "country"}

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New()

// Result is the outcome of validating one submission.
type Result struct {
	Submission model.Submission
	Errors     []string
}

// Valid reports whether no rule failed.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateSubmission checks a raw request body against the contact form rules.
//
// Rules, in order:
//  1. the body must be a JSON object, otherwise a single generic error is
//     returned and nothing else is checked;
//  2. name, phone and country must be non-blank;
//  3. a non-blank email must contain '@';
//  4. a truthy interests value must be a list.
//
// Every failing rule from 2 to 4 contributes one message.
func ValidateSubmission(body []byte) Result {
	if !gjson.ValidBytes(body) {
		return Result{Errors: []string{msgInvalidPayload}}
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return Result{Errors: []string{msgInvalidPayload}}
	}

	fields := lastValues(doc)

	var errors []string

	for _, field := range requiredFields {
		if strings.TrimSpace(text(fields.get(field))) == "" {
			errors = append(errors, fmt.Sprintf(msgRequiredField, field))
		}
	}

	email := strings.TrimSpace(text(fields.get("email")))
	if email != "" && validate.Var(email, "contains=@") != nil {
		errors = append(errors, msgEmailMissingAt)
	}

	interests := fields.get("interests")
	if truthy(interests) && !interests.IsArray() {
		errors = append(errors, msgInterestsNotList)
	}

	if len(errors) > 0 {
		return Result{Errors: errors}
	}

	return Result{Submission: model.Submission{
		Name:       text(fields.get("name")),
		Phone:      text(fields.get("phone")),
		Country:    text(fields.get("country")),
		CountryISO: text(fields.get("country_iso")),
		Email:      text(fields.get("email")),
		Address:    text(fields.get("address")),
		Comments:   text(fields.get("comments")),
		Activities: text(fields.get("activities")),
		Interests:  list(interests),
	}}
}

// objectFields holds the top-level members of an object. A repeated key keeps
// its last value.
type objectFields map[string]gjson.Result

func lastValues(doc gjson.Result) objectFields {
	fields := objectFields{}
	doc.ForEach(func(key, value gjson.Result) bool {
		fields[key.String()] = value
		return true
	})
	return fields
}

// get returns the member named key; missing keys read as null.
func (f objectFields) get(key string) gjson.Result {
	return f[key]
}

// text returns the textual value of a scalar.
//
// Strings are returned as sent and numbers as written in the body; null,
// booleans, objects, arrays and missing keys have no text.
func text(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Raw
	default:
		return ""
	}
}

// truthy mirrors JSON truthiness: false, null, 0, "", [] and {} are falsy.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	case gjson.True:
		return true
	case gjson.JSON:
		if v.IsArray() {
			return len(v.Array()) > 0
		}
		return len(v.Map()) > 0
	default:
		return false
	}
}

// list returns the items of an array value as strings; anything else is nil.
func list(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}

	items := v.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String())
	}
	return out
}
