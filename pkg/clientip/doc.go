// Package clientip extracts real client IP addresses from HTTP requests.
//
// It checks proxy headers in priority order — CF-Connecting-IP,
// DO-Connecting-IP, X-Forwarded-For, X-Real-IP — before falling back to the
// connection's RemoteAddr, which is what rate limiting and security logging
// need behind a load balancer or CDN.
package clientip
