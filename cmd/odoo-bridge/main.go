// Command odoo-bridge serves the contact form and forwards submissions to
// Odoo as res.partner records.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd runs the server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "odoo-bridge",
	Short: "Contact form to Odoo partner bridge",
	Long: `odoo-bridge accepts contact-form submissions over HTTP, validates them
and creates the matching res.partner in Odoo through XML-RPC.

Configuration is read from the environment (and a .env file when present).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
