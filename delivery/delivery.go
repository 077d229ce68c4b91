// Package delivery posts serialized payloads to chat webhooks.
//
// Every destination is sent to exactly once, sequentially, and independently:
// a failing destination is recorded and logged but never stops the rest.
// There is no retry queue.
package delivery

import (
	"net/url"
	"strings"
)

// Status classifies the outcome of one send.
type Status string

const (
	// StatusDelivered means the webhook answered 2xx.
	StatusDelivered Status = "delivered"

	// StatusRejected means the webhook answered 4xx other than 410 and 429.
	StatusRejected Status = "rejected"

	// StatusGone means the webhook no longer exists (410).
	StatusGone Status = "gone"

	// StatusThrottled means the chat service rate limited the send (429).
	StatusThrottled Status = "throttled"

	// StatusFailed means a 5xx answer or a transport error.
	StatusFailed Status = "failed"

	// StatusShortCircuited means the destination's breaker is open and no
	// request was made.
	StatusShortCircuited Status = "short_circuited"
)

// Result holds the outcome of a single send.
type Result struct {
	Destination string `json:"destination"`
	Status      Status `json:"status"`
	StatusCode  int    `json:"status_code,omitempty"`
	Error       string `json:"error,omitempty"`
	Response    string `json:"response,omitempty"`
	LatencyMs   int    `json:"latency_ms"`
}

// OK reports whether the payload was accepted.
func (r Result) OK() bool { return r.Status == StatusDelivered }

// Classify maps an HTTP status code to a Status. A zero code means the
// request never got an answer.
//
//   - 2xx → delivered
//   - 410 → gone
//   - 429 → throttled
//   - other 4xx → rejected
//   - 5xx, 0 and anything else → failed
func Classify(code int) Status {
	switch {
	case code >= 200 && code < 300:
		return StatusDelivered
	case code == 410:
		return StatusGone
	case code == 429:
		return StatusThrottled
	case code >= 400 && code < 500:
		return StatusRejected
	default:
		return StatusFailed
	}
}

// Redact strips the last path segment of a webhook URL. Chat webhook URLs
// carry their secret token there, so only redacted forms are logged.
func Redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "(invalid url)"
	}
	p := strings.TrimSuffix(u.Path, "/")
	if i := strings.LastIndex(p, "/"); i > 0 {
		p = p[:i] + "/***"
	}
	return u.Scheme + "://" + u.Host + p
}
