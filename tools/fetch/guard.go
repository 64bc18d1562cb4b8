package fetch

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
	"time"
)

// 安全检查的拒绝原因
const (
	ReasonScheme       = "Only http(s) URLs are allowed"
	ReasonNoHost       = "URL missing hostname"
	ReasonLocalhost    = "Access to localhost is blocked"
	ReasonPrivateIP    = "Access to private/loopback addresses is blocked"
	ReasonResolvesPriv = "Host resolves to private/loopback address (blocked)"
)

// DefaultLookupTimeout DNS 解析的默认超时时间
const DefaultLookupTimeout = 10 * time.Second

// Resolver 域名解析接口，默认使用 net.DefaultResolver
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Verdict 安全检查结果
type Verdict struct {
	Allowed bool
	Reason  string
}

// Error 让被拒绝的 Verdict 可以作为 error 传递
func (v *Verdict) Error() string {
	return v.Reason
}

// 保留地址段，覆盖 net/netip 内置判断之外的特殊用途网段
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("192.0.2.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("198.51.100.0/24"),
	netip.MustParsePrefix("203.0.113.0/24"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("255.255.255.255/32"),
	netip.MustParsePrefix("64:ff9b::/96"),
	netip.MustParsePrefix("100::/64"),
	netip.MustParsePrefix("2001::/23"),
	netip.MustParsePrefix("2001:db8::/32"),
	netip.MustParsePrefix("fec0::/10"),
}

// IsDisallowedAddr 判断地址是否属于私有、回环、链路本地、保留、组播或未指定地址
func IsDisallowedAddr(addr netip.Addr) bool {
	if !addr.IsValid() {
		return true
	}
	addr = addr.Unmap()
	if addr.IsPrivate() ||
		addr.IsLoopback() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsInterfaceLocalMulticast() ||
		addr.IsMulticast() ||
		addr.IsUnspecified() {
		return true
	}
	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Guard 在发起请求之前检查目标 URL，阻止访问内网地址
type Guard struct {
	resolver Resolver
	timeout  time.Duration
}

// GuardOption Guard 配置项
type GuardOption func(*Guard)

// WithResolver 替换默认的 DNS 解析器
func WithResolver(r Resolver) GuardOption {
	return func(g *Guard) {
		g.resolver = r
	}
}

// WithLookupTimeout 设置 DNS 解析超时时间
func WithLookupTimeout(d time.Duration) GuardOption {
	return func(g *Guard) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// NewGuard 创建安全检查器
func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{
		resolver: net.DefaultResolver,
		timeout:  DefaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func deny(reason string) Verdict {
	return Verdict{Reason: reason}
}

// Evaluate 检查 URL 是否允许访问。
// 检查通过后到真正建立连接之间存在 DNS 重新解析的窗口，这里不做地址固定。
func (g *Guard) Evaluate(ctx context.Context, rawURL string) Verdict {
	u, err := url.Parse(rawURL)
	if err != nil {
		return deny(fmt.Sprintf("Invalid URL: %v", err))
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return deny(ReasonScheme)
	}
	host := u.Hostname()
	if host == "" {
		return deny(ReasonNoHost)
	}
	lower := strings.ToLower(strings.TrimSuffix(host, "."))
	if lower == "localhost" || lower == "localhost.localdomain" {
		return deny(ReasonLocalhost)
	}

	// IPv6 zone 不影响地址类别
	if addr, err := netip.ParseAddr(host); err == nil {
		if IsDisallowedAddr(addr) {
			return deny(ReasonPrivateIP)
		}
		return Verdict{Allowed: true}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	addrs, err := g.resolver.LookupIPAddr(lookupCtx, host)
	if err != nil || len(addrs) == 0 {
		return deny(ReasonResolvesPriv)
	}
	for _, a := range addrs {
		ip, ok := netip.AddrFromSlice(a.IP)
		if !ok || IsDisallowedAddr(ip) {
			return deny(ReasonResolvesPriv)
		}
	}
	return Verdict{Allowed: true}
}
