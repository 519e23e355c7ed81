// Package directory identifies the DNS hosting provider of a domain from its
// nameservers and exposes provider metadata such as the control panel login.
package directory

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Provider describes a known DNS hosting provider.
type Provider struct {
	Name              string   `yaml:"name" json:"name"`
	Domains           []string `yaml:"domains" json:"domains"` // substrings matched against nameservers
	LoginURL          string   `yaml:"login_url" json:"loginUrl"`
	IconURL           string   `yaml:"icon_url" json:"iconUrl"`
	CNAMEInstructions string   `yaml:"cname_instructions" json:"cnameInstructions"`
}

// Directory looks up provider metadata for a nameserver hostname.
type Directory interface {
	Lookup(nameserver string) (Provider, bool)
}

// Static is an ordered provider table. The first entry with a matching
// domain wins, so order is priority.
type Static struct {
	providers []Provider
}

// NewStatic creates a Static directory. The slice is copied.
func NewStatic(providers []Provider) *Static {
	cp := make([]Provider, len(providers))
	copy(cp, providers)
	return &Static{providers: cp}
}

// Lookup returns the first provider with a domain substring contained in
// nameserver (case-insensitive).
func (s *Static) Lookup(nameserver string) (Provider, bool) {
	ns := strings.ToLower(nameserver)
	for _, p := range s.providers {
		if matches(p, ns) {
			return p, true
		}
	}
	return Provider{}, false
}

// Providers returns the table in priority order.
func (s *Static) Providers() []Provider {
	cp := make([]Provider, len(s.providers))
	copy(cp, s.providers)
	return cp
}

// LoadFile reads a YAML list of providers.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading directory file: %w", err)
	}

	var providers []Provider
	if err := yaml.Unmarshal(data, &providers); err != nil {
		return nil, fmt.Errorf("parsing directory file: %w", err)
	}
	for i, p := range providers {
		if p.Name == "" {
			return nil, fmt.Errorf("directory file: entry %d: missing required field 'name'", i)
		}
		if len(p.Domains) == 0 {
			return nil, fmt.Errorf("directory file: provider %q: missing required field 'domains'", p.Name)
		}
	}

	return NewStatic(providers), nil
}

// Lister is implemented by directories that can enumerate their entries in
// priority order.
type Lister interface {
	Providers() []Provider
}

// Identify returns the provider name for a set of nameservers, falling back
// to the last two labels of the first nameserver. Returns "" if nothing fits.
//
// When d implements Lister (as Static does), entry order takes priority: every
// entry is tried against every nameserver before the next entry. A Directory
// that only implements Lookup cannot be enumerated, so it is queried per
// nameserver in nameserver order and the first hit wins.
func Identify(d Directory, nameservers []string) string {
	lowered := make([]string, 0, len(nameservers))
	for _, ns := range nameservers {
		lowered = append(lowered, strings.ToLower(strings.TrimSuffix(ns, ".")))
	}

	if l, ok := d.(Lister); ok {
		for _, p := range l.Providers() {
			for _, ns := range lowered {
				if matches(p, ns) {
					return p.Name
				}
			}
		}
	} else if d != nil {
		for _, ns := range lowered {
			if p, ok := d.Lookup(ns); ok {
				return p.Name
			}
		}
	}

	if len(lowered) == 0 {
		return ""
	}
	labels := strings.Split(lowered[0], ".")
	if len(labels) < 2 || labels[len(labels)-2] == "" {
		return ""
	}
	return strings.Join(labels[len(labels)-2:], ".")
}

func matches(p Provider, ns string) bool {
	for _, d := range p.Domains {
		if d != "" && strings.Contains(ns, strings.ToLower(d)) {
			return true
		}
	}
	return false
}
