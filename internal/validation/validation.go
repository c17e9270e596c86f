// Package validation contains the logic for validating
// request data.
//
// The contact form is checked from the raw body with gjson (see
// ValidateSubmission) so that non-object payloads and wrongly typed fields
// are reported with the same messages as missing ones, and every problem is
// returned at once. Single-value rules use the `validator` library.
package validation
