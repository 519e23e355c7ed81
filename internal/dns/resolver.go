package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-logr/logr"
	mdns "github.com/miekg/dns"
)

// ErrNoDomainConnectRecord is returned when a domain publishes no
// _domainconnect TXT record.
var ErrNoDomainConnectRecord = errors.New("dns: no _domainconnect record")

const defaultResolvConf = "/etc/resolv.conf"

// Resolver answers the nameserver and TXT questions Domain Connect discovery
// needs. It sends plain queries to a single recursive server.
type Resolver struct {
	server string
	client *mdns.Client
	log    logr.Logger
}

// NewResolver creates a Resolver that queries server ("host" or "host:port").
// An empty server uses the first nameserver from /etc/resolv.conf.
func NewResolver(log logr.Logger, server string, timeout time.Duration) (*Resolver, error) {
	if server == "" {
		cfg, err := mdns.ClientConfigFromFile(defaultResolvConf)
		if err != nil {
			return nil, fmt.Errorf("dns: reading %s: %w", defaultResolvConf, err)
		}
		if len(cfg.Servers) == 0 {
			return nil, fmt.Errorf("dns: no nameservers in %s", defaultResolvConf)
		}
		server = net.JoinHostPort(cfg.Servers[0], cfg.Port)
	}
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Resolver{
		server: server,
		client: &mdns.Client{Timeout: timeout},
		log:    log,
	}, nil
}

// Server returns the address queries are sent to.
func (r *Resolver) Server() string {
	return r.server
}

// LookupNS returns the nameserver names for domain, without trailing dots.
func (r *Resolver) LookupNS(ctx context.Context, domain string) ([]string, error) {
	resp, err := r.query(ctx, domain, mdns.TypeNS)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, rr := range resp.Answer {
		if ns, ok := rr.(*mdns.NS); ok {
			out = append(out, strings.TrimSuffix(ns.Ns, "."))
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("dns: no NS records for %s", domain)
	}
	r.log.V(1).Info("resolved nameservers", "domain", domain, "nameservers", out)
	return out, nil
}

// LookupDomainConnect returns the _domainconnect TXT record value for
// domain. Returns ErrNoDomainConnectRecord if there is none.
func (r *Resolver) LookupDomainConnect(ctx context.Context, domain string) (string, error) {
	resp, err := r.query(ctx, "_domainconnect."+domain, mdns.TypeTXT)
	if err != nil {
		return "", err
	}
	if resp.Rcode == mdns.RcodeNameError {
		return "", ErrNoDomainConnectRecord
	}

	for _, rr := range resp.Answer {
		if txt, ok := rr.(*mdns.TXT); ok && len(txt.Txt) > 0 {
			// TXT records can be split into multiple strings, join them
			return strings.Join(txt.Txt, ""), nil
		}
	}
	return "", ErrNoDomainConnectRecord
}

func (r *Resolver) query(ctx context.Context, name string, qtype uint16) (*mdns.Msg, error) {
	msg := new(mdns.Msg)
	msg.SetQuestion(mdns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	resp, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return nil, fmt.Errorf("dns: %s query for %s: %w", mdns.TypeToString[qtype], name, err)
	}
	if resp.Rcode != mdns.RcodeSuccess && resp.Rcode != mdns.RcodeNameError {
		return nil, fmt.Errorf("dns: %s query for %s returned %s", mdns.TypeToString[qtype], name, mdns.RcodeToString[resp.Rcode])
	}
	return resp, nil
}
