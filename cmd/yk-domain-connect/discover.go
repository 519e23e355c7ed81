package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/domainconnect"
)

const maxConcurrentLookups = 8

type discoverResult struct {
	Domain   string                  `json:"domain"`
	Settings *domainconnect.Settings `json:"settings,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

var discoverCmd = &cobra.Command{
	Use:   "discover DOMAIN...",
	Short: "Discover Domain Connect settings for one or more domains",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := newClient(cliLog("discover"), cfg)
	if err != nil {
		return err
	}

	results := make([]discoverResult, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxConcurrentLookups)
	for i, domain := range args {
		g.Go(func() error {
			results[i].Domain = domain
			settings, err := c.DiscoverSettings(ctx, domain)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Settings = settings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), results)
}
