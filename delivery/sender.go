package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

const maxResponseBody = 1024 // 1KB cap on response body storage

// NotificationHeader carries the notification ID on every send.
const NotificationHeader = "X-Herald-Notification-ID"

// Transport performs one HTTP POST of a payload. Sender is the default
// implementation; hosts may supply their own.
type Transport interface {
	Send(ctx context.Context, destination string, body []byte, notificationID string) Result
}

var errUpstream = errors.New("upstream error")

// Sender performs HTTP webhook delivery through one circuit breaker per
// destination, so a dead webhook stops costing a timeout on every
// notification.
type Sender struct {
	client    *http.Client
	userAgent string
	trip      uint32
	cooldown  time.Duration

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[*http.Response]
}

// SenderOption configures a Sender.
type SenderOption func(*Sender)

// WithHTTPClient replaces the HTTP client. The client's timeout still
// bounds every send.
func WithHTTPClient(c *http.Client) SenderOption {
	return func(s *Sender) { s.client = c }
}

// WithBreaker sets how many consecutive failures open a destination's
// breaker and how long it stays open.
func WithBreaker(consecutiveFailures uint32, cooldown time.Duration) SenderOption {
	return func(s *Sender) {
		s.trip = consecutiveFailures
		s.cooldown = cooldown
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) SenderOption {
	return func(s *Sender) { s.userAgent = ua }
}

// NewSender creates a sender with the given HTTP timeout.
func NewSender(timeout time.Duration, opts ...SenderOption) *Sender {
	s := &Sender{
		client:    &http.Client{Timeout: timeout},
		userAgent: "Herald/1.0",
		trip:      5,
		cooldown:  30 * time.Second,
		breakers:  make(map[string]*gobreaker.CircuitBreaker[*http.Response]),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send posts body to destination and returns the result. It never panics
// on transport errors; every failure is reported in the Result.
func (s *Sender) Send(ctx context.Context, destination string, body []byte, notificationID string) Result {
	res := Result{Destination: destination}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destination, bytes.NewReader(body))
	if err != nil {
		res.Status = StatusFailed
		res.Error = fmt.Sprintf("create request: %v", err)
		return res
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.userAgent)
	if notificationID != "" {
		req.Header.Set(NotificationHeader, notificationID)
	}

	start := time.Now()
	resp, err := s.breaker(destination).Execute(func() (*http.Response, error) {
		r, doErr := s.client.Do(req) //nolint:gosec // destinations are operator-configured webhooks
		if doErr != nil {
			return nil, doErr
		}
		if r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests {
			return r, fmt.Errorf("%w: %d", errUpstream, r.StatusCode)
		}
		return r, nil
	})
	res.LatencyMs = int(time.Since(start).Milliseconds())

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		res.Status = StatusShortCircuited
		res.Error = err.Error()
		return res
	}

	if resp == nil {
		res.Status = StatusFailed
		if err != nil {
			res.Error = err.Error()
		}
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	res.Status = Classify(resp.StatusCode)

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if readErr != nil {
		res.Error = fmt.Sprintf("read response: %v", readErr)
		return res
	}
	res.Response = string(respBody)

	if !res.OK() {
		res.Error = fmt.Sprintf("webhook returned %d", resp.StatusCode)
	}
	return res
}

// breaker returns the circuit breaker for a destination, creating it on
// first use.
func (s *Sender) breaker(destination string) *gobreaker.CircuitBreaker[*http.Response] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cb, ok := s.breakers[destination]; ok {
		return cb
	}

	trip := s.trip
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        Redact(destination),
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     s.cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return trip > 0 && counts.ConsecutiveFailures >= trip
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})
	s.breakers[destination] = cb
	return cb
}
