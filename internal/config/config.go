package config

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/template"
)

// ParamMap maps base domains (or "*." wildcards) to the template parameters
// applied for hostnames under them.
type ParamMap struct {
	entries map[string]template.Params
}

// LoadParamMap reads a YAML file mapping domains to template parameters, e.g.
//
//	example.com:
//	  ip: 10.0.8.100
//	"*.apps.example.com":
//	  ip: 10.0.8.101
//
// String values have ${ENV_VAR} references expanded.
func LoadParamMap(path string) (*ParamMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading param map file: %w", err)
	}

	entries := make(map[string]template.Params)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing param map file: %w", err)
	}
	for domain, params := range entries {
		entries[domain] = expandParams(params)
	}

	return &ParamMap{entries: entries}, nil
}

// NewParamMap builds a ParamMap from entries. The map is used as is.
func NewParamMap(entries map[string]template.Params) *ParamMap {
	return &ParamMap{entries: entries}
}

// LookupParams finds the parameters for a hostname by walking up its labels.
// Exact matches take priority over wildcards at the same level. For example,
// given:
//
//	"*.example.com":    {ip: 10.0.0.1}
//	"app2.example.com": {ip: 10.0.0.2}
//
// "app1.example.com" returns {ip: 10.0.0.1} (wildcard match)
// "app2.example.com" returns {ip: 10.0.0.2} (exact match wins)
//
// The returned map is a copy.
func (pm *ParamMap) LookupParams(hostname string) (template.Params, bool) {
	hostname = strings.TrimSuffix(hostname, ".")
	for h := hostname; h != ""; {
		if p, ok := pm.entries[h]; ok {
			return copyParams(p), true
		}
		idx := strings.Index(h, ".")
		if idx < 0 {
			break
		}
		if p, ok := pm.entries["*."+h[idx+1:]]; ok {
			return copyParams(p), true
		}
		h = h[idx+1:]
	}
	return nil, false
}

// Domains returns all configured domain keys.
func (pm *ParamMap) Domains() []string {
	domains := make([]string, 0, len(pm.entries))
	for d := range pm.entries {
		domains = append(domains, d)
	}
	return domains
}

func copyParams(p template.Params) template.Params {
	out := make(template.Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func expandParams(p template.Params) template.Params {
	out := make(template.Params, len(p))
	for k, v := range p {
		if s, ok := v.(string); ok {
			v = os.ExpandEnv(s)
		}
		out[k] = v
	}
	return out
}
