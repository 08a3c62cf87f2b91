package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// RemoteIP returns the host part of r.RemoteAddr, the address of the peer
// that opened the connection. Unlike GetIP it cannot be set by the client.
func RemoteIP(r *http.Request) string {
	if r.RemoteAddr == "" {
		return Fallback
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ResolveTrusted returns the client address when only the given proxies may
// vouch for it. A peer outside trusted is the client. Behind a trusted peer,
// X-Forwarded-For is walked from the right and the first untrusted entry is
// returned; entries appended by trusted proxies cannot be forged by the
// client, anything to their left can.
func ResolveTrusted(r *http.Request, trusted []netip.Prefix) string {
	peer := RemoteIP(r)
	if !isTrusted(peer, trusted) {
		return peer
	}

	hops := strings.Split(r.Header.Get(headerForwardedFor), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if _, err := netip.ParseAddr(hop); err != nil {
			return peer
		}
		if !isTrusted(hop, trusted) {
			return hop
		}
	}

	if ip := strings.TrimSpace(r.Header.Get(headerRealIP)); ip != "" {
		if _, err := netip.ParseAddr(ip); err == nil {
			return ip
		}
	}
	return peer
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
