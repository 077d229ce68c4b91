package signature

import (
	"crypto/hmac"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// DefaultTolerance bounds the clock skew accepted between signer and verifier.
const DefaultTolerance = 5 * time.Minute

// Verification errors.
var (
	ErrMissing   = errors.New("signature: missing signature headers")
	ErrTimestamp = errors.New("signature: malformed timestamp")
	ErrExpired   = errors.New("signature: timestamp outside tolerance")
	ErrMismatch  = errors.New("signature: mismatch")
)

// Verify checks whether the given signature matches the expected HMAC-SHA256
// signature for the payload, secret, and timestamp.
func Verify(payload []byte, secret string, timestamp int64, sig string) bool {
	expected := Sign(payload, secret, timestamp)
	return hmac.Equal([]byte(expected), []byte(sig))
}

// Verifier checks signed requests against one shared secret.
type Verifier struct {
	secret    string
	tolerance time.Duration
	now       func() time.Time
}

// NewVerifier returns a Verifier. A non-positive tolerance means
// DefaultTolerance.
func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Verifier{secret: secret, tolerance: tolerance, now: time.Now}
}

// WithClock returns a copy of v using now as its clock.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	cp := *v
	cp.now = now
	return &cp
}

// Check verifies the signature headers of a request carrying payload.
func (v *Verifier) Check(h http.Header, payload []byte) error {
	sig := h.Get(HeaderSignature)
	raw := h.Get(HeaderTimestamp)
	if sig == "" || raw == "" {
		return ErrMissing
	}

	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return ErrTimestamp
	}

	skew := v.now().Sub(time.Unix(ts, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > v.tolerance {
		return ErrExpired
	}

	if !Verify(payload, v.secret, ts, sig) {
		return ErrMismatch
	}
	return nil
}
