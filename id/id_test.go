package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/herald/id"
)

func TestNewNotificationIDPrefix(t *testing.T) {
	nid := id.NewNotificationID()
	if nid.Prefix() != id.PrefixNotification {
		t.Fatalf("prefix: got %q", nid.Prefix())
	}
	if !strings.HasPrefix(nid.String(), "ntf_") {
		t.Fatalf("string: got %q", nid.String())
	}
}

func TestParseWatcherIDRoundTrip(t *testing.T) {
	wid := id.NewWatcherID()

	parsed, err := id.ParseWatcherID(wid.String())
	if err != nil {
		t.Fatal(err)
	}
	if parsed.String() != wid.String() {
		t.Fatalf("got %q, want %q", parsed, wid)
	}
}

func TestParseWithWrongPrefix(t *testing.T) {
	nid := id.NewNotificationID()
	if _, err := id.ParseWatcherID(nid.String()); err == nil {
		t.Fatal("expected prefix mismatch error")
	}
}

func TestNilID(t *testing.T) {
	if !id.Nil.IsNil() {
		t.Fatal("Nil should report IsNil")
	}
	if id.Nil.String() != "" {
		t.Fatal("Nil should stringify to empty")
	}

	var parsed id.ID
	if err := parsed.UnmarshalText(nil); err != nil {
		t.Fatal(err)
	}
	if !parsed.IsNil() {
		t.Fatal("empty text should decode to Nil")
	}
}
