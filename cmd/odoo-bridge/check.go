package main

import (
	"fmt"
	"strings"

	"github.com/deppfellow/odoo-bridge/internal/config"
	"github.com/deppfellow/odoo-bridge/internal/logger"
	"github.com/deppfellow/odoo-bridge/internal/odoo"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the Odoo configuration and credentials",
	Long: `Load the configuration, report missing ODOO_* variables and, when the
block is complete, authenticate once against Odoo and print the uid.

Exits non-zero when the bridge could not create partners.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Observability)
	out := cmd.OutOrStdout()

	if missing := cfg.Odoo.MissingVars(); len(missing) > 0 {
		return errors.Errorf("odoo configuration incomplete, missing: %s", strings.Join(missing, ", "))
	}

	session, err := odoo.NewConnector(cfg.Odoo, nil, &log).Authenticate()
	if err != nil {
		return errors.Wrapf(err, "authenticate against %s", cfg.Odoo.URL)
	}
	defer session.Close()

	fmt.Fprintf(out, "odoo reachable at %s, database %s, uid %d\n", cfg.Odoo.URL, cfg.Odoo.DB, session.UID)

	return nil
}
