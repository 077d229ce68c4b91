package delivery_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xraph/herald/delivery"
)

func TestSenderHappyPath(t *testing.T) {
	var receivedHeaders http.Header
	var receivedBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedHeaders = r.Header
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			t.Error(err)
		}
		receivedBody = string(bodyBytes)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sender := delivery.NewSender(5 * time.Second)
	result := sender.Send(context.Background(), srv.URL, []byte(`{"embeds":[]}`), "ntf_123")

	if result.StatusCode != http.StatusNoContent || !result.OK() {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	if receivedBody != `{"embeds":[]}` {
		t.Fatalf("body = %q", receivedBody)
	}
	if got := receivedHeaders.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := receivedHeaders.Get(delivery.NotificationHeader); got != "ntf_123" {
		t.Errorf("%s = %q", delivery.NotificationHeader, got)
	}
	if got := receivedHeaders.Get("User-Agent"); got != "Herald/1.0" {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestSenderStatusClassification(t *testing.T) {
	tests := []struct {
		code int
		want delivery.Status
	}{
		{http.StatusOK, delivery.StatusDelivered},
		{http.StatusBadRequest, delivery.StatusRejected},
		{http.StatusGone, delivery.StatusGone},
		{http.StatusTooManyRequests, delivery.StatusThrottled},
		{http.StatusInternalServerError, delivery.StatusFailed},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte("nope"))
			}))
			defer srv.Close()

			res := delivery.NewSender(5*time.Second).Send(context.Background(), srv.URL, []byte(`{}`), "")
			if res.Status != tt.want {
				t.Fatalf("Status = %q, want %q", res.Status, tt.want)
			}
			if res.StatusCode != tt.code {
				t.Fatalf("StatusCode = %d", res.StatusCode)
			}
			if !res.OK() && res.Error == "" {
				t.Error("expected error message on failure")
			}
		})
	}
}

func TestSenderConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := delivery.NewSender(time.Second).Send(context.Background(), url, []byte(`{}`), "")
	if res.Status != delivery.StatusFailed || res.Error == "" || res.StatusCode != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSenderInvalidURL(t *testing.T) {
	res := delivery.NewSender(time.Second).Send(context.Background(), "://bad", []byte(`{}`), "")
	if res.Status != delivery.StatusFailed || res.Error == "" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSenderBreakerOpensPerDestination(t *testing.T) {
	var badHits atomic.Int32
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		badHits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer good.Close()

	sender := delivery.NewSender(5*time.Second, delivery.WithBreaker(2, time.Minute))

	for range 2 {
		if res := sender.Send(context.Background(), bad.URL, []byte(`{}`), ""); res.Status != delivery.StatusFailed {
			t.Fatalf("expected failed, got %+v", res)
		}
	}

	res := sender.Send(context.Background(), bad.URL, []byte(`{}`), "")
	if res.Status != delivery.StatusShortCircuited {
		t.Fatalf("expected short circuit, got %+v", res)
	}
	if badHits.Load() != 2 {
		t.Fatalf("expected 2 requests to the failing webhook, got %d", badHits.Load())
	}

	if res := sender.Send(context.Background(), good.URL, []byte(`{}`), ""); !res.OK() {
		t.Fatalf("healthy destination affected by another breaker: %+v", res)
	}
}

func TestSenderClientErrorsDoNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	sender := delivery.NewSender(5*time.Second, delivery.WithBreaker(1, time.Minute))
	for range 3 {
		sender.Send(context.Background(), srv.URL, []byte(`{}`), "")
	}
	if hits.Load() != 3 {
		t.Fatalf("expected every request to reach the server, got %d", hits.Load())
	}
}
