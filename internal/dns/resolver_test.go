package dns

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	logrtesting "github.com/go-logr/logr/testing"
	mdns "github.com/miekg/dns"
)

// startFakeDNS serves the given zone records over UDP on localhost.
func startFakeDNS(t *testing.T, zone map[uint16][]string) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	handler := mdns.HandlerFunc(func(w mdns.ResponseWriter, req *mdns.Msg) {
		m := new(mdns.Msg)
		m.SetReply(req)
		q := req.Question[0]
		found := false
		for _, s := range zone[q.Qtype] {
			rr, err := mdns.NewRR(s)
			if err != nil {
				t.Errorf("bad test RR %q: %v", s, err)
				continue
			}
			if rr.Header().Name == q.Name {
				m.Answer = append(m.Answer, rr)
				found = true
			}
		}
		if !found {
			m.Rcode = mdns.RcodeNameError
		}
		_ = w.WriteMsg(m)
	})

	started := make(chan struct{})
	srv := &mdns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String()
}

func TestResolver_LookupNS(t *testing.T) {
	addr := startFakeDNS(t, map[uint16][]string{
		mdns.TypeNS: {
			"example.com. 300 IN NS ns11.domaincontrol.com.",
			"example.com. 300 IN NS ns12.domaincontrol.com.",
		},
	})

	r, err := NewResolver(logrtesting.NewTestLogger(t), addr, time.Second)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	got, err := r.LookupNS(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("LookupNS: %v", err)
	}
	if len(got) != 2 || got[0] != "ns11.domaincontrol.com" || got[1] != "ns12.domaincontrol.com" {
		t.Errorf("unexpected nameservers: %v", got)
	}
}

func TestResolver_LookupNS_NotFound(t *testing.T) {
	addr := startFakeDNS(t, nil)

	r, err := NewResolver(logrtesting.NewTestLogger(t), addr, time.Second)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	if _, err := r.LookupNS(context.Background(), "missing.example"); err == nil {
		t.Fatal("expected error for domain without NS records")
	}
}

func TestResolver_LookupDomainConnect(t *testing.T) {
	addr := startFakeDNS(t, map[uint16][]string{
		mdns.TypeTXT: {`_domainconnect.example.com. 300 IN TXT "api.domainconnect." "example.net"`},
	})

	r, err := NewResolver(logrtesting.NewTestLogger(t), addr, time.Second)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	got, err := r.LookupDomainConnect(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("LookupDomainConnect: %v", err)
	}
	if got != "api.domainconnect.example.net" {
		t.Errorf("expected joined TXT value, got %q", got)
	}

	_, err = r.LookupDomainConnect(context.Background(), "other.com")
	if !errors.Is(err, ErrNoDomainConnectRecord) {
		t.Errorf("expected ErrNoDomainConnectRecord, got %v", err)
	}
}

func TestNewResolver_DefaultPort(t *testing.T) {
	r, err := NewResolver(logrtesting.NewTestLogger(t), "192.0.2.53", 0)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if r.Server() != "192.0.2.53:53" {
		t.Errorf("expected port 53 to be added, got %q", r.Server())
	}
}
