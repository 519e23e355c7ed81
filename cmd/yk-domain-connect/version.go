package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/domainconnect"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "yk-domain-connect %s\n", Version)
		fmt.Fprintf(out, "Discovery strategies: %v\n", domainconnect.StrategyNames())
		return nil
	},
}
