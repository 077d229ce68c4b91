// Package signature authenticates change notifications posted by the
// tracker hook with an HMAC-SHA256 shared secret.
//
// The hook signs "{timestamp}.{body}" and sends the result in
// X-Herald-Signature together with the Unix timestamp in
// X-Herald-Timestamp.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Header names carried by signed requests.
const (
	HeaderSignature = "X-Herald-Signature"
	HeaderTimestamp = "X-Herald-Timestamp"
)

// Sign generates the HMAC-SHA256 signature for the given payload.
// The content to sign is "{timestamp}.{payload}".
// Returns a versioned signature in the format "v1=<hex>".
func Sign(payload []byte, secret string, timestamp int64) string {
	content := fmt.Sprintf("%d.%s", timestamp, payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(content))
	return "v1=" + hex.EncodeToString(mac.Sum(nil))
}

// SignHeader sets the signature headers for payload signed at now.
func SignHeader(h http.Header, payload []byte, secret string, now time.Time) {
	ts := now.Unix()
	h.Set(HeaderTimestamp, strconv.FormatInt(ts, 10))
	h.Set(HeaderSignature, Sign(payload, secret, ts))
}
