package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/config"
	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/directory"
	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/dns"
	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/domainconnect"
	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/template"
)

// loadConfig reads the config file. When no path was given explicitly and the
// default file does not exist, built-in defaults are used so that discovery
// commands work without any configuration.
func loadConfig() (*config.Config, error) {
	explicit := configPath != "" || os.Getenv("DOMAIN_CONNECT_CONFIG") != ""

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadConfigFromPath(configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("unable to load config: %w", err)
	}
	return cfg, nil
}

// newClient builds a Domain Connect client from cfg.
func newClient(log logr.Logger, cfg *config.Config) (*domainconnect.Client, error) {
	fetcher := domainconnect.NewHTTPFetcher(nil, cfg.Discovery.Timeout)
	opts := []domainconnect.Option{}

	deps := domainconnect.StrategyDeps{Fetcher: fetcher, Log: log}
	resolver, err := dns.NewResolver(log.WithName("dns"), cfg.DNS.Server, cfg.DNS.Timeout)
	if err != nil {
		log.V(1).Info("DNS resolver unavailable, provider identification and TXT discovery disabled", "reason", err.Error())
	} else {
		deps.TXT = resolver
		opts = append(opts, domainconnect.WithResolver(resolver))
	}

	if len(cfg.Discovery.Strategies) > 0 {
		strategies, err := domainconnect.NewStrategies(cfg.Discovery.Strategies, deps)
		if err != nil {
			return nil, fmt.Errorf("unable to set up discovery: %w", err)
		}
		opts = append(opts, domainconnect.WithStrategies(strategies...))
	}

	if cfg.DirectoryPath != "" {
		dir, err := directory.LoadFile(cfg.DirectoryPath)
		if err != nil {
			return nil, fmt.Errorf("unable to load provider directory: %w", err)
		}
		opts = append(opts, domainconnect.WithDirectory(dir))
	}

	return domainconnect.NewClient(log, fetcher, opts...), nil
}

// applyFlags are shared by the commands that act on one template.
type applyFlags struct {
	providerID string
	serviceID  string
	host       string
	params     []string
}

func (f *applyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.providerID, "provider-id", "", "template provider ID (default from config)")
	cmd.Flags().StringVar(&f.serviceID, "service-id", "", "template service ID (default from config)")
	cmd.Flags().StringVar(&f.host, "host", "", "subdomain to apply the template under (empty for the apex)")
	cmd.Flags().StringArrayVarP(&f.params, "param", "p", nil, "template parameter as key=value (repeatable)")
}

// options merges the flags over cfg into apply options for domain.
func (f *applyFlags) options(cfg *config.Config, domain string) (domainconnect.Options, error) {
	opts := domainconnect.Options{
		Domain:      domain,
		ProviderID:  cfg.ProviderID,
		ServiceID:   cfg.ServiceID,
		Host:        f.host,
		RedirectURI: cfg.RedirectURI,
	}
	if f.providerID != "" {
		opts.ProviderID = f.providerID
	}
	if f.serviceID != "" {
		opts.ServiceID = f.serviceID
	}
	if opts.ProviderID == "" || opts.ServiceID == "" {
		return opts, errors.New("provider and service IDs are required (--provider-id/--service-id or config)")
	}

	params, err := parseParams(cfg.Params, f.params)
	if err != nil {
		return opts, err
	}
	opts.Params = params
	return opts, nil
}

// parseParams overlays key=value pairs on base.
func parseParams(base template.Params, pairs []string) (template.Params, error) {
	out := make(template.Params, len(base)+len(pairs))
	for k, v := range base {
		out[k] = v
	}
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", kv)
		}
		out[k] = v
	}
	return out, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cliLog(name string) logr.Logger {
	return ctrl.Log.WithName(name)
}
