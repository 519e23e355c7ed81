package domainconnect

import (
	"net/url"
	"sort"
	"strings"

	"github.com/yuriy-kovalchuk/yk-domain-connect/internal/template"
)

// Discovery endpoints for a domain, tried in this order by default.
const (
	domainConnectHostURL = "https://_domainconnect.%s/v2/domainTemplates/providers"
	wellKnownURL         = "https://%s/.well-known/domain-connect.json"
	txtSettingsURL       = "https://%s/v2/%s/settings"
)

// BuildTemplateURL returns the URL of a service template.
func BuildTemplateURL(settings Settings, providerID, serviceID string) string {
	return servicePath(settings.URLAPI, providerID, serviceID)
}

// BuildSyncURL returns the synchronous apply URL. Query order is domain,
// host, then params sorted by name, so equal inputs give equal URLs.
func BuildSyncURL(settings Settings, opts Options) string {
	var q query
	q.add("domain", opts.Domain)
	if opts.Host != "" {
		q.add("host", opts.Host)
	}
	q.addParams(opts.Params)
	return servicePath(settings.URLAPI, opts.ProviderID, opts.ServiceID) + "/apply?" + q.String()
}

// BuildAsyncURL returns the asynchronous consent URL the user is sent to.
// ok is false when the provider does not support the asynchronous flow.
func BuildAsyncURL(settings Settings, opts Options) (u string, ok bool) {
	if !asyncAvailable(settings) {
		return "", false
	}

	var q query
	q.add("domain", opts.Domain)
	if opts.Host != "" {
		q.add("host", opts.Host)
	}
	if opts.RedirectURI != "" {
		q.add("redirect_uri", opts.RedirectURI)
	}
	if opts.State != "" {
		q.add("state", opts.State)
	}
	if opts.ForcePermission {
		q.add("force", "true")
	}
	q.addParams(opts.Params)
	return servicePath(settings.URLAsyncAPI, opts.ProviderID, opts.ServiceID) + "/apply?" + q.String(), true
}

// BuildStatusURL returns the URL polled by CheckAsyncStatus for an
// asynchronous apply. ok is false when the asynchronous flow is unavailable.
func BuildStatusURL(settings Settings, opts Options) (u string, ok bool) {
	if !asyncAvailable(settings) {
		return "", false
	}

	var q query
	q.add("domain", opts.Domain)
	if opts.Host != "" {
		q.add("host", opts.Host)
	}
	return servicePath(settings.URLAsyncAPI, opts.ProviderID, opts.ServiceID) + "/status?" + q.String(), true
}

func asyncAvailable(settings Settings) bool {
	return settings.AsyncEnabled && settings.URLAsyncAPI != ""
}

func servicePath(base, providerID, serviceID string) string {
	return strings.TrimRight(base, "/") +
		"/v2/domainTemplates/providers/" + url.PathEscape(providerID) +
		"/services/" + url.PathEscape(serviceID)
}

// query builds an encoded query string that keeps insertion order, which
// url.Values does not.
type query struct {
	b strings.Builder
}

func (q *query) add(key, value string) {
	if q.b.Len() > 0 {
		q.b.WriteByte('&')
	}
	q.b.WriteString(url.QueryEscape(key))
	q.b.WriteByte('=')
	q.b.WriteString(url.QueryEscape(value))
}

func (q *query) addParams(params template.Params) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.add(k, template.FormatValue(params[k]))
	}
}

func (q *query) String() string {
	return q.b.String()
}

// RedirectResult holds the query values a DNS provider appends to
// redirect_uri when it sends the user back after an asynchronous apply.
type RedirectResult struct {
	State            string `json:"state,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"errorDescription,omitempty"`
}

// ParseRedirect reads state, error and error_description from the URL the
// provider redirected the user to. An unparseable URL yields a zero result.
func ParseRedirect(rawURL string) RedirectResult {
	u, err := url.Parse(rawURL)
	if err != nil {
		return RedirectResult{}
	}
	q := u.Query()
	return RedirectResult{
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}
}
