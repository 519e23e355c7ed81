// Package domainconnect is a Domain Connect client: it discovers a DNS
// provider's API for a domain, fetches service templates, and applies them
// synchronously or hands back an asynchronous consent URL.
package domainconnect

import "github.com/yuriy-kovalchuk/yk-domain-connect/internal/template"

// Settings is the discovery document a DNS provider publishes for a domain.
type Settings struct {
	URLAPI       string `json:"urlAPI"`
	SyncEnabled  bool   `json:"syncEnabled,omitempty"`
	AsyncEnabled bool   `json:"asyncEnabled,omitempty"`
	URLAsyncAPI  string `json:"urlAsyncAPI,omitempty"`

	ProviderID          string `json:"providerId,omitempty"`
	ProviderName        string `json:"providerName,omitempty"`
	ProviderDisplayName string `json:"providerDisplayName,omitempty"`
}

// Options is one apply request.
type Options struct {
	Domain          string
	ProviderID      string
	ServiceID       string
	Params          template.Params
	Host            string // subdomain the template is applied under; empty for the apex
	RedirectURI     string
	State           string
	ForcePermission bool
}

// Result is the outcome of an apply or status call. Transport and protocol
// failures are reported here rather than as Go errors.
type Result struct {
	Success        bool   `json:"success"`
	RedirectURL    string `json:"redirectUrl,omitempty"`
	Error          string `json:"error,omitempty"`
	AsyncStatusURL string `json:"asyncStatusUrl,omitempty"`
}

const (
	msgSyncUnsupported  = "Synchronous mode not supported by DNS provider"
	msgAsyncUnsupported = "Asynchronous mode not supported by DNS provider"
	msgInProgress       = "Operation still in progress"
)

func failure(msg string) Result {
	return Result{Success: false, Error: msg}
}
