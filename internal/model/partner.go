// Package model holds the shapes that live for one request: the contact
// form Submission and the res.partner record sent to Odoo.
package model

import (
	"strings"
)

const (
	// InterestsField is the Odoo Studio field receiving the raw interests list.
	InterestsField = "x_studio_centre_dinterets"

	interestsLabel     = "Centres d'intérêt : "
	interestsSeparator = ", "
	commentSeparator   = "\n\n---\n"
)

// Submission is a validated contact-form payload.
//
// String fields hold the values as sent (untrimmed); the mapper trims.
type Submission struct {
	Name       string
	Phone      string
	Country    string
	CountryISO string
	Email      string
	Address    string
	Comments   string
	Activities string
	Interests  []string
}

// Field is a partner value that is either set or explicitly empty.
//
// Odoo distinguishes a field sent as false (cleared) from a field that is
// not sent at all; a Field always ends up in the record, as its value or as
// false. Fields that can be omitted are modelled as pointers or checked
// before they are added (see Partner.Values).
type Field struct {
	value string
}

// Text trims s and returns it as a Field; blank text is the empty Field.
func Text(s string) Field {
	return Field{value: strings.TrimSpace(s)}
}

// IsEmpty reports whether the field will be sent as false.
func (f Field) IsEmpty() bool {
	return f.value == ""
}

// String returns the value, or "" for the empty Field.
func (f Field) String() string {
	return f.value
}

// Value returns the XML-RPC value: the string, or false when empty.
func (f Field) Value() interface{} {
	if f.IsEmpty() {
		return false
	}
	return f.value
}

// Partner is the res.partner record created for a submission.
type Partner struct {
	Name    string
	Phone   string
	Email   Field
	Street  Field
	Comment Field

	// CountryID is nil when no country could be resolved; the key is then
	// left out of the record instead of being sent as false.
	CountryID *int64

	// Interests is the comma-joined interests list, "" when none were sent.
	Interests string
}

// BuildPartner maps a submission and an optional country id to a partner record.
//
// It performs no I/O and returns the same record for the same inputs.
func BuildPartner(s Submission, countryID *int64) Partner {
	interests := strings.Join(s.Interests, interestsSeparator)

	base := s.Comments
	if base == "" {
		base = s.Activities
	}
	comment := strings.TrimSpace(base)

	if interests != "" {
		separator := ""
		if comment != "" {
			separator = commentSeparator
		}
		comment = comment + separator + interestsLabel + interests
	}

	p := Partner{
		Name:      strings.TrimSpace(s.Name),
		Phone:     strings.TrimSpace(s.Phone),
		Email:     Text(s.Email),
		Street:    Text(s.Address),
		Comment:   Field{value: comment},
		Interests: interests,
	}

	if countryID != nil {
		id := *countryID
		p.CountryID = &id
	}

	return p
}

// Values returns the record as the map passed to res.partner create.
func (p Partner) Values() map[string]interface{} {
	values := map[string]interface{}{
		"name":    p.Name,
		"phone":   p.Phone,
		"email":   p.Email.Value(),
		"street":  p.Street.Value(),
		"comment": p.Comment.Value(),
	}

	if p.CountryID != nil {
		values["country_id"] = *p.CountryID
	}

	if p.Interests != "" {
		values[InterestsField] = p.Interests
	}

	return values
}
