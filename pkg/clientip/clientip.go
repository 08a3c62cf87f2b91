package clientip

import (
	"net/http"
	"strings"
)

// Fallback is returned when no proxy header carries an address.
const Fallback = "0.0.0.0"

const (
	headerForwardedFor = "X-Forwarded-For"
	headerRealIP       = "X-Real-IP"
)

// GetIP returns the client address as reported by the fronting proxy:
// the first X-Forwarded-For entry, else X-Real-IP, else Fallback.
// Values are trimmed but otherwise returned verbatim; they are request
// metadata, not proof of origin.
func GetIP(r *http.Request) string {
	if xff := r.Header.Get(headerForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
		return Fallback
	}

	if ip := strings.TrimSpace(r.Header.Get(headerRealIP)); ip != "" {
		return ip
	}

	return Fallback
}
