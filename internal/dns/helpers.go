package dns

import (
	"regexp"
	"strings"
)

// secondLevelRE matches second-level registry suffixes such as "co.uk" or
// "com.au". It approximates the public suffix list and misses many real
// suffixes (e.g. "co.jp" matches but "ac.uk" does not).
var secondLevelRE = regexp.MustCompile(`^(co|com|net|org|gov|edu)\.[a-z]{2}$`)

// HostParts is a hostname split into its registrable domain and the
// subdomain in front of it. Subdomain is empty for a bare domain.
type HostParts struct {
	Domain    string
	Subdomain string
}

// Split splits an FQDN into registrable domain and subdomain.
// e.g. "www.example.com" → {"example.com", "www"}
// e.g. "example.co.uk" → {"example.co.uk", ""}
// e.g. "a.b.example.co.uk" → {"example.co.uk", "a.b"}
func Split(hostname string) HostParts {
	hostname = strings.TrimSuffix(hostname, ".")
	labels := strings.Split(hostname, ".")
	if len(labels) <= 2 {
		return HostParts{Domain: hostname}
	}

	n := len(labels)
	if secondLevelRE.MatchString(labels[n-2] + "." + labels[n-1]) {
		if n < 4 {
			return HostParts{Domain: hostname}
		}
		return HostParts{
			Domain:    strings.Join(labels[n-3:], "."),
			Subdomain: strings.Join(labels[:n-3], "."),
		}
	}

	return HostParts{
		Domain:    strings.Join(labels[n-2:], "."),
		Subdomain: strings.Join(labels[:n-2], "."),
	}
}

// FQDN joins a subdomain and domain back into a hostname.
func (h HostParts) FQDN() string {
	if h.Subdomain == "" {
		return h.Domain
	}
	return h.Subdomain + "." + h.Domain
}
