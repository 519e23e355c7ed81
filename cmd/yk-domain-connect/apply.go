package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/domainconnect"
	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/template"
)

var (
	templateFlags  applyFlags
	previewFlags   applyFlags
	applyCmdFlags  applyFlags
	authorizeFlags struct {
		applyFlags
		redirectURI string
		state       string
		force       bool
	}
	statusFlags struct {
		applyFlags
		url string
	}
	callbackState string
)

var templateCmd = &cobra.Command{
	Use:   "template DOMAIN",
	Short: "Fetch a service template from the DNS provider of DOMAIN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, opts, err := prepare("template", &templateFlags, args[0])
		if err != nil {
			return err
		}
		settings, err := c.DiscoverSettings(cmd.Context(), opts.Domain)
		if err != nil {
			return err
		}
		t, err := c.GetTemplate(cmd.Context(), *settings, opts.ProviderID, opts.ServiceID)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), t)
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview DOMAIN",
	Short: "Show the records a template would create, without applying it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, opts, err := prepare("preview", &previewFlags, args[0])
		if err != nil {
			return err
		}
		p, err := c.PreviewRecords(cmd.Context(), opts)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), struct {
			Domain  string            `json:"domain"`
			Host    string            `json:"host,omitempty"`
			Valid   bool              `json:"valid"`
			Missing []string          `json:"missing,omitempty"`
			Records []template.Record `json:"records"`
		}{opts.Domain, opts.Host, p.Validation.Valid, p.Validation.Missing, p.Records})
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply DOMAIN",
	Short: "Apply a template through the provider's synchronous API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, opts, err := prepare("apply", &applyCmdFlags, args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, c.Apply(cmd.Context(), opts))
	},
}

var authorizeCmd = &cobra.Command{
	Use:   "authorize DOMAIN",
	Short: "Print the consent URL for an asynchronous apply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, opts, err := prepare("authorize", &authorizeFlags.applyFlags, args[0])
		if err != nil {
			return err
		}
		if authorizeFlags.redirectURI != "" {
			opts.RedirectURI = authorizeFlags.redirectURI
		}
		opts.State = authorizeFlags.state
		if opts.State == "" {
			opts.State = uuid.NewString()
		}
		opts.ForcePermission = authorizeFlags.force

		settings, err := c.DiscoverSettings(cmd.Context(), opts.Domain)
		if err != nil {
			return err
		}
		res := c.ApplyAsynchronous(cmd.Context(), *settings, opts)
		if !res.Success {
			return printResult(cmd, res)
		}
		return printJSON(cmd.OutOrStdout(), struct {
			domainconnect.Result
			State string `json:"state"`
		}{res, opts.State})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [DOMAIN]",
	Short: "Check the status of an asynchronous apply",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if statusFlags.url != "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := newClient(cliLog("status"), cfg)
			if err != nil {
				return err
			}
			return printResult(cmd, c.CheckAsyncStatus(cmd.Context(), statusFlags.url))
		}
		if len(args) == 0 {
			return errors.New("either DOMAIN or --url is required")
		}

		c, opts, err := prepare("status", &statusFlags.applyFlags, args[0])
		if err != nil {
			return err
		}
		settings, err := c.DiscoverSettings(cmd.Context(), opts.Domain)
		if err != nil {
			return err
		}
		statusURL, ok := domainconnect.BuildStatusURL(*settings, opts)
		if !ok {
			return fmt.Errorf("DNS provider of %s has no asynchronous API", opts.Domain)
		}
		return printResult(cmd, c.CheckAsyncStatus(cmd.Context(), statusURL))
	},
}

var callbackCmd = &cobra.Command{
	Use:   "callback URL",
	Short: "Check the redirect a DNS provider sent back after authorize",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := domainconnect.ParseRedirect(args[0])
		if err := printJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
		if res.Error != "" {
			return fmt.Errorf("provider returned %s: %s", res.Error, res.ErrorDescription)
		}
		if callbackState != "" && res.State != callbackState {
			return fmt.Errorf("state mismatch: got %q, want %q", res.State, callbackState)
		}
		return nil
	},
}

func init() {
	templateFlags.register(templateCmd)
	previewFlags.register(previewCmd)
	applyCmdFlags.register(applyCmd)

	authorizeFlags.register(authorizeCmd)
	authorizeCmd.Flags().StringVar(&authorizeFlags.redirectURI, "redirect-uri", "", "where the provider sends the user after consent (default from config)")
	authorizeCmd.Flags().StringVar(&authorizeFlags.state, "state", "", "opaque value echoed back on redirect (default: random UUID)")
	authorizeCmd.Flags().BoolVar(&authorizeFlags.force, "force", false, "ask the provider to overwrite conflicting records")

	statusFlags.register(statusCmd)
	statusCmd.Flags().StringVar(&statusFlags.url, "url", "", "status URL returned by authorize; skips discovery")

	callbackCmd.Flags().StringVar(&callbackState, "state", "", "state printed by authorize; checked against the redirect")
}

// prepare loads the config and builds the client and options for one
// template command.
func prepare(name string, f *applyFlags, domain string) (*domainconnect.Client, domainconnect.Options, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, domainconnect.Options{}, err
	}
	opts, err := f.options(cfg, domain)
	if err != nil {
		return nil, opts, err
	}
	c, err := newClient(cliLog(name), cfg)
	if err != nil {
		return nil, opts, err
	}
	return c, opts, nil
}

// printResult writes res and turns a failed result into a non-zero exit.
func printResult(cmd *cobra.Command, res domainconnect.Result) error {
	if err := printJSON(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	if !res.Success {
		return errors.New(res.Error)
	}
	return nil
}
