package domainconnect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/directory"
	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/template"
)

const tracerName = "yk-domain-connect"

// NameserverResolver resolves the authoritative nameservers of a domain.
type NameserverResolver interface {
	LookupNS(ctx context.Context, domain string) ([]string, error)
}

// Client drives discovery, template fetches, and apply calls. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	fetcher    Fetcher
	resolver   NameserverResolver
	directory  directory.Directory
	strategies []Strategy
	log        logr.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithResolver sets the nameserver resolver used by IdentifyProvider.
func WithResolver(r NameserverResolver) Option {
	return func(c *Client) { c.resolver = r }
}

// WithDirectory replaces the built-in provider directory.
func WithDirectory(d directory.Directory) Option {
	return func(c *Client) { c.directory = d }
}

// WithStrategies replaces the default discovery order.
func WithStrategies(s ...Strategy) Option {
	return func(c *Client) { c.strategies = s }
}

// NewClient creates a Client that performs HTTP calls through fetcher.
func NewClient(log logr.Logger, fetcher Fetcher, opts ...Option) *Client {
	c := &Client{
		fetcher:   fetcher,
		directory: directory.Builtin(),
		log:       log,
	}
	for _, o := range opts {
		o(c)
	}
	if c.strategies == nil {
		c.strategies = DefaultStrategies(fetcher)
	}
	return c
}

// DiscoverSettings finds the Domain Connect settings for domain. Returns
// ErrSettingsNotFound when every strategy fails.
func (c *Client) DiscoverSettings(ctx context.Context, domain string) (*Settings, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "domainconnect.DiscoverSettings")
	defer span.End()
	span.SetAttributes(attribute.String("domain", domain))

	settings, strategy, err := discover(ctx, c.log, c.strategies, domain)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("discovery.strategy", strategy))
	c.log.V(1).Info("discovered settings", "domain", domain, "strategy", strategy, "urlAPI", settings.URLAPI,
		"syncEnabled", settings.SyncEnabled, "asyncEnabled", settings.AsyncEnabled)
	return settings, nil
}

// GetTemplate fetches a service template from the provider's API.
func (c *Client) GetTemplate(ctx context.Context, settings Settings, providerID, serviceID string) (*template.Template, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "domainconnect.GetTemplate")
	defer span.End()
	span.SetAttributes(
		attribute.String("provider_id", providerID),
		attribute.String("service_id", serviceID),
	)

	url := BuildTemplateURL(settings, providerID, serviceID)
	resp, err := c.get(ctx, "template", url)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("domainconnect: template %s/%s returned status %d", providerID, serviceID, resp.StatusCode)
		span.RecordError(err)
		return nil, err
	}

	var t template.Template
	if err := json.Unmarshal(resp.Body, &t); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("domainconnect: decode template %s/%s: %w", providerID, serviceID, err)
	}
	return &t, nil
}

// ApplySynchronous applies the template through the provider's synchronous
// API. No request is made when the provider has the flow disabled.
func (c *Client) ApplySynchronous(ctx context.Context, settings Settings, opts Options) Result {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "domainconnect.ApplySynchronous")
	defer span.End()
	span.SetAttributes(attribute.String("domain", opts.Domain), attribute.String("host", opts.Host))

	if !settings.SyncEnabled {
		applyTotal.WithLabelValues("sync", "unsupported").Inc()
		return failure(msgSyncUnsupported)
	}

	url := BuildSyncURL(settings, opts)
	c.log.Info("applying template", "domain", opts.Domain, "host", opts.Host,
		"providerId", opts.ProviderID, "serviceId", opts.ServiceID)

	result := c.statusResult(ctx, "apply", url, false)
	applyTotal.WithLabelValues("sync", resultLabel(result)).Inc()
	if !result.Success {
		span.RecordError(errors.New(result.Error))
	}
	return result
}

// ApplyAsynchronous returns the consent URL the user must visit to approve
// the change. The URL is not fetched.
func (c *Client) ApplyAsynchronous(ctx context.Context, settings Settings, opts Options) Result {
	_, span := otel.Tracer(tracerName).Start(ctx, "domainconnect.ApplyAsynchronous")
	defer span.End()
	span.SetAttributes(attribute.String("domain", opts.Domain), attribute.String("host", opts.Host))

	redirect, ok := BuildAsyncURL(settings, opts)
	if !ok {
		applyTotal.WithLabelValues("async", "unsupported").Inc()
		return failure(msgAsyncUnsupported)
	}
	statusURL, _ := BuildStatusURL(settings, opts)

	applyTotal.WithLabelValues("async", "success").Inc()
	return Result{Success: true, RedirectURL: redirect, AsyncStatusURL: statusURL}
}

// CheckAsyncStatus polls an asynchronous apply. 202 means the user has not
// finished the consent flow yet.
func (c *Client) CheckAsyncStatus(ctx context.Context, statusURL string) Result {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "domainconnect.CheckAsyncStatus")
	defer span.End()

	result := c.statusResult(ctx, "status", statusURL, true)
	applyTotal.WithLabelValues("status", resultLabel(result)).Inc()
	return result
}

// Preview is what applying a template would write, without writing it.
type Preview struct {
	Settings   *Settings
	Template   *template.Template
	Params     template.Params
	Validation template.ValidationResult
	Records    []template.Record
}

// PreviewRecords discovers settings, fetches the template, and resolves its
// records for opts. Records are resolved even when validation fails so the
// caller can see which placeholders stay unfilled.
func (c *Client) PreviewRecords(ctx context.Context, opts Options) (*Preview, error) {
	settings, err := c.DiscoverSettings(ctx, opts.Domain)
	if err != nil {
		return nil, err
	}
	t, err := c.GetTemplate(ctx, *settings, opts.ProviderID, opts.ServiceID)
	if err != nil {
		return nil, err
	}

	params := template.ApplyDefaults(t, opts.Params)
	return &Preview{
		Settings:   settings,
		Template:   t,
		Params:     params,
		Validation: template.Validate(t, params),
		Records:    template.ResolveRecords(t, params, opts.Domain, opts.Host),
	}, nil
}

// Apply discovers settings for opts.Domain, checks the template's parameters,
// and applies it synchronously.
func (c *Client) Apply(ctx context.Context, opts Options) Result {
	settings, err := c.DiscoverSettings(ctx, opts.Domain)
	if err != nil {
		return failure(fmt.Sprintf("Domain Connect not supported for %s", opts.Domain))
	}
	if !settings.SyncEnabled {
		applyTotal.WithLabelValues("sync", "unsupported").Inc()
		return failure(msgSyncUnsupported)
	}

	t, err := c.GetTemplate(ctx, *settings, opts.ProviderID, opts.ServiceID)
	if err != nil {
		return failure(err.Error())
	}
	if t.HostRequired && opts.Host == "" {
		return failure("Template requires a host")
	}

	params := template.ApplyDefaults(t, opts.Params)
	if v := template.Validate(t, params); !v.Valid {
		return failure("Missing required parameters: " + strings.Join(v.Missing, ", "))
	}

	opts.Params = params
	return c.ApplySynchronous(ctx, *settings, opts)
}

// IdentifyProvider resolves the nameservers of domain and names the DNS
// provider behind them. info is nil when the provider is not in the
// directory and the name is only a guess from the nameserver domain.
func (c *Client) IdentifyProvider(ctx context.Context, domain string) (name string, info *directory.Provider, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "domainconnect.IdentifyProvider")
	defer span.End()
	span.SetAttributes(attribute.String("domain", domain))

	if c.resolver == nil {
		return "", nil, errors.New("domainconnect: no nameserver resolver configured")
	}
	nameservers, err := c.resolver.LookupNS(ctx, domain)
	if err != nil {
		span.RecordError(err)
		return "", nil, fmt.Errorf("domainconnect: resolving nameservers for %s: %w", domain, err)
	}

	name = directory.Identify(c.directory, nameservers)
	if c.directory != nil {
		for _, ns := range nameservers {
			if p, ok := c.directory.Lookup(ns); ok && p.Name == name {
				info = &p
				break
			}
		}
	}
	span.SetAttributes(attribute.String("dns_provider.name", name))
	return name, info, nil
}

// statusResult GETs url and maps the status code onto a Result.
func (c *Client) statusResult(ctx context.Context, operation, url string, allowPending bool) Result {
	resp, err := c.get(ctx, operation, url)
	if err != nil {
		c.log.V(1).Info("request failed", "operation", operation, "reason", err.Error())
		return failure(err.Error())
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return Result{Success: true}
	case allowPending && resp.StatusCode == http.StatusAccepted:
		return failure(msgInProgress)
	default:
		return failure(fmt.Sprintf("Unexpected status code: %d", resp.StatusCode))
	}
}

func (c *Client) get(ctx context.Context, operation, url string) (*Response, error) {
	start := time.Now()
	resp, err := c.fetcher.Get(ctx, url)
	requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	return resp, err
}
