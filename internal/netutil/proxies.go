// SPDX-License-Identifier: MIT

// Package netutil provides client IP extraction behind trusted proxies and
// host normalization for user-supplied domains.
package netutil

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// TrustedProxies decides whether forwarded headers from a peer are honoured.
// The zero value trusts nothing and always falls back to RemoteAddr.
type TrustedProxies struct {
	nets []*net.IPNet
}

// ParseTrustedProxies parses a list of CIDRs or bare IPs into a checker.
// Bare IPs are widened to host routes (/32 or /128).
func ParseTrustedProxies(entries []string) (*TrustedProxies, error) {
	tp := &TrustedProxies{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if ip, ipnet, err := net.ParseCIDR(entry); err == nil {
			ipnet.IP = ip
			tp.nets = append(tp.nets, ipnet)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			return nil, fmt.Errorf("invalid CIDR or IP: %s", entry)
		}
		bits := 32
		if ip.To4() == nil {
			bits = 128
		}
		tp.nets = append(tp.nets, &net.IPNet{
			IP:   ip,
			Mask: net.CIDRMask(bits, bits),
		})
	}
	return tp, nil
}

// Trusted checks if the remote address (host or host:port) is a trusted proxy.
func (tp *TrustedProxies) Trusted(remote string) bool {
	if tp == nil || len(tp.nets) == 0 {
		return false
	}
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, n := range tp.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP determines the originating IP address. Forwarded headers
// (X-Forwarded-For, then X-Real-IP) are only honoured when the direct peer
// is a trusted proxy; otherwise RemoteAddr wins.
func (tp *TrustedProxies) ClientIP(r *http.Request) string {
	if tp.Trusted(r.RemoteAddr) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return xr
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
