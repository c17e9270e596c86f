// Package errs define custom error types and utilities.
//
// Its purpose is to create specific error structures..
// (e.g. the validation message list for the contact form or a
// bad-gateway wrapper around Odoo failures)..
// to ensure the client receives meaningful and consistent..
// error bodies, while the underlying cause stays available for logs.
package errs
