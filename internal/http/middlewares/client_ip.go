package middlewares

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPResolver obtiene la IP del cliente. X-Forwarded-For solo se lee cuando
// el request llega desde un proxy de confianza; un resolver nil (o sin
// proxies) usa siempre RemoteAddr.
type IPResolver struct {
	trusted []netip.Prefix
}

// NewIPResolver acepta IPs sueltas o CIDRs ("10.0.0.0/8", "127.0.0.1").
func NewIPResolver(proxies []string) (*IPResolver, error) {
	res := &IPResolver{}
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			addr, err := netip.ParseAddr(p)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", p, err)
			}
			res.trusted = append(res.trusted, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
			continue
		}
		pfx, err := netip.ParsePrefix(p)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", p, err)
		}
		res.trusted = append(res.trusted, pfx.Masked())
	}
	return res, nil
}

func (p *IPResolver) isTrusted(ip string) bool {
	if p == nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, pfx := range p.trusted {
		if pfx.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP recorre X-Forwarded-For de derecha a izquierda desde RemoteAddr
// y se queda con el primer salto que no es un proxy de confianza.
func (p *IPResolver) ClientIP(r *http.Request) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	if !p.isTrusted(remote) {
		return remote
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !p.isTrusted(hop) {
			return hop
		}
	}
	return remote
}
