package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/directory"
)

type identifyResult struct {
	Domain   string              `json:"domain"`
	Provider string              `json:"provider"`
	Info     *directory.Provider `json:"info,omitempty"`
	Error    string              `json:"error,omitempty"`
}

var identifyCmd = &cobra.Command{
	Use:   "identify DOMAIN...",
	Short: "Identify the DNS provider hosting one or more domains",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIdentify,
}

func runIdentify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := newClient(cliLog("identify"), cfg)
	if err != nil {
		return err
	}

	results := make([]identifyResult, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxConcurrentLookups)
	for i, domain := range args {
		g.Go(func() error {
			results[i].Domain = domain
			name, info, err := c.IdentifyProvider(ctx, domain)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Provider = name
			results[i].Info = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), results)
}
