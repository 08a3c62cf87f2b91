package fingerprint

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/dmitrymomot/sessionguard/pkg/clientip"
)

// ErrMismatch indicates the recorded client attributes differ from the
// current request. This could be session theft or a legitimate network or
// browser change.
var ErrMismatch = errors.New("fingerprint mismatch")

const (
	hashVersion = "v1:"
	hashLen     = 16
)

// Fingerprint is the pair of client attributes a session is bound to.
type Fingerprint struct {
	IP        string `json:"ip"`
	UserAgent string `json:"agent"`
}

// FromRequest captures the fingerprint of r. The IP comes from proxy headers
// (see clientip.GetIP) and the user agent is taken verbatim.
func FromRequest(r *http.Request) Fingerprint {
	return Fingerprint{
		IP:        clientip.GetIP(r),
		UserAgent: r.UserAgent(),
	}
}

// Equal reports whether both attributes match exactly.
// Comparison is constant time per attribute.
func (f Fingerprint) Equal(other Fingerprint) bool {
	ip := subtle.ConstantTimeCompare([]byte(f.IP), []byte(other.IP))
	ua := subtle.ConstantTimeCompare([]byte(f.UserAgent), []byte(other.UserAgent))
	return ip&ua == 1
}

// Validate returns ErrMismatch when the fingerprint of r differs from stored.
func Validate(r *http.Request, stored Fingerprint) error {
	if !FromRequest(r).Equal(stored) {
		return ErrMismatch
	}
	return nil
}

// Hash returns a short, versioned digest suitable for log correlation.
// Raw IP and user agent values stay out of logs.
func (f Fingerprint) Hash() string {
	// Pipe separator keeps ("ab","c") and ("a","bc") apart.
	sum := sha256.Sum256([]byte(f.IP + "|" + f.UserAgent))
	return hashVersion + hex.EncodeToString(sum[:hashLen])
}
