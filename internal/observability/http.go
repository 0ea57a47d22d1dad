package observability

import (
	"net"
	"net/http"
	"strings"
)

// RequestInfo captures the identity-adjacent request headers attached to each
// websocket connection for lifecycle events.
type RequestInfo struct {
	RequestID string
	DeviceID  string
	IP        string
}

// RequestInfoFromRequest extracts request id, device id and client IP.
func RequestInfoFromRequest(r *http.Request) RequestInfo {
	return RequestInfo{
		RequestID: r.Header.Get("X-Request-Id"),
		DeviceID:  r.Header.Get("X-Device-Id"),
		IP:        clientIP(r),
	}
}

func clientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
