// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// localHosts apply when no allowed hosts are configured
var localHosts = []string{".localhost", "127.0.0.1", "::1"}

// AllowedHosts rejects requests whose Host header is not in hosts.
// "*" allows any host and a leading dot matches the domain and all of
// its subdomains.
func AllowedHosts(hosts []string, next http.Handler) http.Handler {
	if len(hosts) == 0 {
		hosts = localHosts
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := requestHost(r)
		if !HostAllowed(host, hosts) {
			slog.Warn("disallowed host", "host", r.Host, "path", r.URL.Path)
			ErrorResponse(w, http.StatusBadRequest, "Invalid HTTP_HOST header: "+host)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HostAllowed reports whether host matches any pattern
func HostAllowed(host string, patterns []string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return false
	}
	for _, p := range patterns {
		p = strings.ToLower(p)
		switch {
		case p == "*":
			return true
		case strings.HasPrefix(p, "."):
			if host == p[1:] || strings.HasSuffix(host, p) {
				return true
			}
		case host == p:
			return true
		}
	}
	return false
}

// requestHost strips the port and IPv6 brackets from r.Host
func requestHost(r *http.Request) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.Trim(host, "[]")
}
