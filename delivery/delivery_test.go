package delivery_test

import (
	"context"
	"testing"

	"github.com/xraph/herald/delivery"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		code int
		want delivery.Status
	}{
		{200, delivery.StatusDelivered},
		{204, delivery.StatusDelivered},
		{301, delivery.StatusFailed},
		{404, delivery.StatusRejected},
		{410, delivery.StatusGone},
		{429, delivery.StatusThrottled},
		{503, delivery.StatusFailed},
		{0, delivery.StatusFailed},
	}
	for _, tt := range tests {
		if got := delivery.Classify(tt.code); got != tt.want {
			t.Errorf("Classify(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://discord.com/api/webhooks/123/secret-token", "https://discord.com/api/webhooks/123/***"},
		{"https://chat.example.com/hook/", "https://chat.example.com/hook"},
		{"https://chat.example.com", "https://chat.example.com"},
		{"not a url", "(invalid url)"},
	}
	for _, tt := range tests {
		if got := delivery.Redact(tt.in); got != tt.want {
			t.Errorf("Redact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type recordingTransport struct {
	calls []string
	fail  map[string]bool
}

func (r *recordingTransport) Send(_ context.Context, dest string, _ []byte, _ string) delivery.Result {
	r.calls = append(r.calls, dest)
	if r.fail[dest] {
		return delivery.Result{Error: "connection refused"}
	}
	return delivery.Result{StatusCode: 200}
}

func TestDispatcherSendsEveryDestination(t *testing.T) {
	tr := &recordingTransport{fail: map[string]bool{"https://b.example.com/h": true}}
	d := delivery.NewDispatcher(tr, delivery.DispatcherConfig{}, nil)

	dests := []string{"https://a.example.com/h", "https://b.example.com/h", "https://c.example.com/h"}
	results := d.Dispatch(context.Background(), "ntf_1", dests, []byte(`{}`))

	if len(tr.calls) != 3 {
		t.Fatalf("expected 3 sends, got %v", tr.calls)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Destination != dests[i] {
			t.Errorf("result %d destination = %q", i, r.Destination)
		}
	}
	if !results[0].OK() || results[1].OK() || !results[2].OK() {
		t.Fatalf("unexpected outcomes: %+v", results)
	}
	if results[1].Status != delivery.StatusFailed {
		t.Errorf("Status = %q", results[1].Status)
	}
}

func TestDispatcherNoDestinations(t *testing.T) {
	tr := &recordingTransport{}
	d := delivery.NewDispatcher(tr, delivery.DispatcherConfig{}, nil)

	if results := d.Dispatch(context.Background(), "ntf_1", nil, []byte(`{}`)); len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
	if len(tr.calls) != 0 {
		t.Fatal("expected no sends")
	}
}
