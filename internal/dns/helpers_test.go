package dns

import "testing"

func TestSplit(t *testing.T) {
	tests := []struct {
		hostname      string
		wantDomain    string
		wantSubdomain string
	}{
		{"example.com", "example.com", ""},
		{"localhost", "localhost", ""},
		{"www.example.com", "example.com", "www"},
		{"a.b.example.com", "example.com", "a.b"},
		{"www.example.com.", "example.com", "www"}, // trailing dot (FQDN)
		{"example.co.uk", "example.co.uk", ""},
		{"www.example.co.uk", "example.co.uk", "www"},
		{"deep.www.example.com.au", "example.com.au", "deep.www"},
		{"shop.example.org.br", "example.org.br", "shop"},
		{"app.example.co.jp", "example.co.jp", "app"},
		{"www.example.ac.uk", "ac.uk", "www.example"}, // not covered by the heuristic
		{"mail.mycom.us", "mycom.us", "mail"},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			got := Split(tt.hostname)
			if got.Domain != tt.wantDomain {
				t.Errorf("Split(%q): got domain=%q, want %q", tt.hostname, got.Domain, tt.wantDomain)
			}
			if got.Subdomain != tt.wantSubdomain {
				t.Errorf("Split(%q): got subdomain=%q, want %q", tt.hostname, got.Subdomain, tt.wantSubdomain)
			}
		})
	}
}

func TestHostPartsFQDN(t *testing.T) {
	for _, h := range []string{"example.com", "www.example.com", "a.b.example.co.uk"} {
		if got := Split(h).FQDN(); got != h {
			t.Errorf("Split(%q).FQDN(): got %q", h, got)
		}
	}
}
