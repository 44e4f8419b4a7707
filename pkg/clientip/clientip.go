package clientip

import (
	"net"
	"net/http"
	"strings"
)

// GetIP returns the real client IP address for r, checking proxy headers in
// priority order before falling back to RemoteAddr. It never returns an
// error — a request with no usable address information simply yields
// RemoteAddr as-is.
func GetIP(r *http.Request) string {
	for _, header := range []string{"CF-Connecting-IP", "DO-Connecting-IP"} {
		if ip := validIP(r.Header.Get(header)); ip != "" {
			return ip
		}
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, candidate := range strings.Split(xff, ",") {
			if ip := validIP(strings.TrimSpace(candidate)); ip != "" {
				return ip
			}
		}
	}

	if ip := validIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		if ip := validIP(host); ip != "" {
			return ip
		}
	}

	return r.RemoteAddr
}

// validIP normalizes and validates a candidate address, rejecting the
// unroutable "no client IP" placeholder.
func validIP(candidate string) string {
	if candidate == "" {
		return ""
	}
	ip := net.ParseIP(candidate)
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
