package fetch

import (
	"bhinneka/config"
	"context"
	"errors"
	"net"
	"net/netip"
	"testing"
	"time"
)

// fakeResolver 按主机名返回固定地址，未登记的主机返回解析失败
type fakeResolver map[string][]string

func (f fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	ips, ok := f[host]
	if !ok {
		return nil, errors.New("no such host")
	}
	out := make([]net.IPAddr, 0, len(ips))
	for _, ip := range ips {
		out = append(out, net.IPAddr{IP: net.ParseIP(ip)})
	}
	return out, nil
}

func TestGuardEvaluate(t *testing.T) {
	guard := NewGuard(WithResolver(fakeResolver{
		"docs.example.test":  {"93.184.216.34"},
		"intranet.test":      {"10.1.2.3"},
		"mixed.test":         {"93.184.216.34", "192.168.1.10"},
		"metadata.test":      {"169.254.169.254"},
		"v6.example.test":    {"2606:2800:220:1:248:1893:25c8:1946"},
		"v6-private.test":    {"fd00::1"},
		"empty.example.test": {},
	}))

	tests := []struct {
		name    string
		url     string
		allowed bool
		reason  string
	}{
		{name: "public host", url: "https://docs.example.test/page", allowed: true},
		{name: "public ipv6 host", url: "http://v6.example.test", allowed: true},
		{name: "public literal", url: "http://93.184.216.34/", allowed: true},
		{name: "ftp scheme", url: "ftp://docs.example.test/file", reason: ReasonScheme},
		{name: "javascript scheme", url: "javascript:alert(1)", reason: ReasonScheme},
		{name: "relative url", url: "/just/a/path", reason: ReasonScheme},
		{name: "missing host", url: "http://", reason: ReasonNoHost},
		{name: "localhost", url: "http://localhost:8080/admin", reason: ReasonLocalhost},
		{name: "localhost uppercase with dot", url: "http://LOCALHOST./", reason: ReasonLocalhost},
		{name: "loopback", url: "http://127.0.0.1/", reason: ReasonPrivateIP},
		{name: "private class a", url: "http://10.0.0.1/", reason: ReasonPrivateIP},
		{name: "link local metadata", url: "http://169.254.169.254/latest/meta-data", reason: ReasonPrivateIP},
		{name: "unspecified", url: "http://0.0.0.0/", reason: ReasonPrivateIP},
		{name: "ipv6 loopback", url: "http://[::1]/", reason: ReasonPrivateIP},
		{name: "ipv4 mapped loopback", url: "http://[::ffff:127.0.0.1]/", reason: ReasonPrivateIP},
		{name: "carrier grade nat", url: "http://100.64.0.1/", reason: ReasonPrivateIP},
		{name: "resolves private", url: "http://intranet.test/", reason: ReasonResolvesPriv},
		{name: "any resolved address private", url: "http://mixed.test/", reason: ReasonResolvesPriv},
		{name: "resolves link local", url: "http://metadata.test/", reason: ReasonResolvesPriv},
		{name: "resolves ipv6 ula", url: "http://v6-private.test/", reason: ReasonResolvesPriv},
		{name: "resolution failure", url: "http://unknown.test/", reason: ReasonResolvesPriv},
		{name: "no addresses", url: "http://empty.example.test/", reason: ReasonResolvesPriv},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := guard.Evaluate(context.Background(), tt.url)
			if v.Allowed != tt.allowed {
				t.Fatalf("Evaluate(%q).Allowed = %v, want %v (reason %q)", tt.url, v.Allowed, tt.allowed, v.Reason)
			}
			if !tt.allowed && v.Reason != tt.reason {
				t.Errorf("Evaluate(%q).Reason = %q, want %q", tt.url, v.Reason, tt.reason)
			}
		})
	}
}

// slowResolver 阻塞到 context 结束
type slowResolver struct{}

func (slowResolver) LookupIPAddr(ctx context.Context, _ string) ([]net.IPAddr, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestGuardLookupTimeout(t *testing.T) {
	guard := NewGuard(WithResolver(slowResolver{}), WithLookupTimeout(50*time.Millisecond))
	begin := time.Now()
	v := guard.Evaluate(context.Background(), "http://slow.example.test/")
	if v.Allowed || v.Reason != ReasonResolvesPriv {
		t.Errorf("Evaluate() = %+v, want %q", v, ReasonResolvesPriv)
	}
	if elapsed := time.Since(begin); elapsed > 2*time.Second {
		t.Errorf("lookup timeout not applied, took %v", elapsed)
	}

	cfg := config.Default().Fetch
	cfg.LookupTimeoutSeconds = 0.25
	svc := NewService(cfg, nil, WithFetcher(NewStaticFetcher(nil, nil)), WithRenderer(&fakeRenderer{}))
	if svc.guard.timeout != 250*time.Millisecond {
		t.Errorf("guard timeout = %v, want 250ms", svc.guard.timeout)
	}
	if NewGuard(WithLookupTimeout(0)).timeout != DefaultLookupTimeout {
		t.Error("non-positive timeout should keep the default")
	}
}

func TestGuardInvalidURL(t *testing.T) {
	v := NewGuard(WithResolver(fakeResolver{})).Evaluate(context.Background(), "http://[::1")
	if v.Allowed {
		t.Fatal("malformed URL should be rejected")
	}
	if want := "Invalid URL: "; len(v.Reason) < len(want) || v.Reason[:len(want)] != want {
		t.Errorf("Reason = %q, want prefix %q", v.Reason, want)
	}
}

func TestIsDisallowedAddr(t *testing.T) {
	tests := map[string]bool{
		"8.8.8.8":         false,
		"1.1.1.1":         false,
		"2001:4860::8888": false,
		"172.16.5.4":      true,
		"192.168.0.1":     true,
		"224.0.0.1":       true,
		"255.255.255.255": true,
		"192.0.2.10":      true,
		"fe80::1":         true,
		"ff02::1":         true,
		"::":              true,
		"2001:db8::1":     true,
	}
	for s, want := range tests {
		if got := IsDisallowedAddr(netip.MustParseAddr(s)); got != want {
			t.Errorf("IsDisallowedAddr(%s) = %v, want %v", s, got, want)
		}
	}
	if !IsDisallowedAddr(netip.Addr{}) {
		t.Error("zero Addr should be disallowed")
	}
}
