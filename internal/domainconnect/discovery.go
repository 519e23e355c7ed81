package domainconnect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/go-logr/logr"
)

// ErrSettingsNotFound is returned when no discovery strategy produced
// settings for a domain.
var ErrSettingsNotFound = errors.New("domainconnect: no settings found")

// Built-in strategy names.
const (
	StrategyDomainConnectHost = "domainconnect-host"
	StrategyWellKnown         = "well-known"
	StrategyTXTRecord         = "txt-record"
)

// DefaultStrategyNames is the discovery order used when none is configured.
var DefaultStrategyNames = []string{StrategyDomainConnectHost, StrategyWellKnown}

// Strategy is one way of finding the settings for a domain.
type Strategy struct {
	Name     string
	Discover func(ctx context.Context, domain string) (*Settings, error)
}

// TXTResolver looks up the _domainconnect TXT record of a domain.
type TXTResolver interface {
	LookupDomainConnect(ctx context.Context, domain string) (string, error)
}

// StrategyDeps are the collaborators a strategy factory may use.
type StrategyDeps struct {
	Fetcher Fetcher
	TXT     TXTResolver
	Log     logr.Logger
}

// StrategyFactory builds a strategy from its dependencies.
type StrategyFactory func(deps StrategyDeps) (Strategy, error)

var (
	mu        sync.Mutex
	factories = make(map[string]StrategyFactory)
)

func init() {
	RegisterStrategy(StrategyDomainConnectHost, func(deps StrategyDeps) (Strategy, error) {
		return urlStrategy(StrategyDomainConnectHost, domainConnectHostURL, deps.Fetcher), nil
	})
	RegisterStrategy(StrategyWellKnown, func(deps StrategyDeps) (Strategy, error) {
		return urlStrategy(StrategyWellKnown, wellKnownURL, deps.Fetcher), nil
	})
	RegisterStrategy(StrategyTXTRecord, func(deps StrategyDeps) (Strategy, error) {
		if deps.TXT == nil {
			return Strategy{}, fmt.Errorf("domainconnect: strategy %q needs a DNS resolver", StrategyTXTRecord)
		}
		return txtStrategy(deps.Fetcher, deps.TXT), nil
	})
}

// RegisterStrategy makes a discovery strategy available by name.
func RegisterStrategy(name string, f StrategyFactory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("domainconnect: strategy %q already registered", name))
	}
	factories[name] = f
}

// NewStrategies builds the named strategies in order.
func NewStrategies(names []string, deps StrategyDeps) ([]Strategy, error) {
	out := make([]Strategy, 0, len(names))
	for _, name := range names {
		mu.Lock()
		f, ok := factories[name]
		mu.Unlock()
		if !ok {
			return nil, fmt.Errorf("unsupported discovery strategy: %q (registered: %v)", name, StrategyNames())
		}
		s, err := f(deps)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// StrategyNames returns the registered strategy names, sorted.
func StrategyNames() []string {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DefaultStrategies returns the _domainconnect host strategy followed by the
// well-known file strategy.
func DefaultStrategies(fetcher Fetcher) []Strategy {
	return []Strategy{
		urlStrategy(StrategyDomainConnectHost, domainConnectHostURL, fetcher),
		urlStrategy(StrategyWellKnown, wellKnownURL, fetcher),
	}
}

// urlStrategy fetches settings JSON from format applied to the domain.
func urlStrategy(name, format string, fetcher Fetcher) Strategy {
	return Strategy{
		Name: name,
		Discover: func(ctx context.Context, domain string) (*Settings, error) {
			return fetchSettings(ctx, fetcher, fmt.Sprintf(format, domain))
		},
	}
}

// txtStrategy reads the API host from the _domainconnect TXT record and
// fetches {host}/v2/{domain}/settings.
func txtStrategy(fetcher Fetcher, txt TXTResolver) Strategy {
	return Strategy{
		Name: StrategyTXTRecord,
		Discover: func(ctx context.Context, domain string) (*Settings, error) {
			apiHost, err := txt.LookupDomainConnect(ctx, domain)
			if err != nil {
				return nil, err
			}
			return fetchSettings(ctx, fetcher, fmt.Sprintf(txtSettingsURL, apiHost, domain))
		},
	}
}

func fetchSettings(ctx context.Context, fetcher Fetcher, url string) (*Settings, error) {
	resp, err := fetcher.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("domainconnect: GET %s returned status %d", url, resp.StatusCode)
	}

	var s Settings
	if err := json.Unmarshal(resp.Body, &s); err != nil {
		return nil, fmt.Errorf("domainconnect: decode settings from %s: %w", url, err)
	}
	if s.URLAPI == "" {
		return nil, fmt.Errorf("domainconnect: settings from %s missing urlAPI", url)
	}
	return &s, nil
}

// discover runs strategies in order and returns the first success. Failures
// are logged and never stop the chain.
func discover(ctx context.Context, log logr.Logger, strategies []Strategy, domain string) (*Settings, string, error) {
	for _, s := range strategies {
		settings, err := s.Discover(ctx, domain)
		if err != nil {
			log.V(1).Info("discovery strategy failed", "strategy", s.Name, "domain", domain, "reason", err.Error())
			discoveryTotal.WithLabelValues(s.Name, "failure").Inc()
			continue
		}
		discoveryTotal.WithLabelValues(s.Name, "success").Inc()
		return settings, s.Name, nil
	}
	return nil, "", fmt.Errorf("%w for %s", ErrSettingsNotFound, domain)
}
