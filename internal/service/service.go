// Package service contains the business logic.
//
// It sits between the handler layer and the Odoo client.
// It receives validated data from the handler, checks that
// the bridge can reach Odoo, and runs the remote calls that
// turn a submission into a partner record.
package service
