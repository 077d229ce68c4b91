package message_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/xraph/herald/message"
)

func decode(t *testing.T, p *message.Payload) map[string]any {
	t.Helper()
	raw, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	return out
}

func firstEmbed(t *testing.T, out map[string]any) map[string]any {
	t.Helper()
	embeds, ok := out["embeds"].([]any)
	if !ok || len(embeds) != 1 {
		t.Fatalf("expected one embed, got %v", out["embeds"])
	}
	return embeds[0].(map[string]any)
}

func TestColorDecimal(t *testing.T) {
	cases := []struct {
		in   message.Color
		want int
	}{
		{"", 16777215},
		{"FFFFFF", 16777215},
		{"2196F3", 0x2196F3},
		{"000000", 0},
		{"ff9800", 0xFF9800},
	}
	for _, c := range cases {
		got, err := c.in.Decimal()
		if err != nil {
			t.Fatalf("Decimal(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Decimal(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestColorInvalid(t *testing.T) {
	for _, c := range []message.Color{"FFF", "#FFFFFF", "GGGGGG", "1234567"} {
		if _, err := c.Decimal(); !errors.Is(err, message.ErrInvalidColor) {
			t.Errorf("Decimal(%q): expected ErrInvalidColor, got %v", c, err)
		}
		if c.Valid() {
			t.Errorf("%q should be invalid", c)
		}
	}
}

func TestUnsetColorSerializesAsWhite(t *testing.T) {
	p := message.NewPayload("", "")
	p.AddEmbed(message.Embed{Body: &message.Body{Title: "x"}})

	embed := firstEmbed(t, decode(t, p))
	if embed["color"] != float64(16777215) {
		t.Fatalf("color: got %v", embed["color"])
	}
}

func TestAlwaysPresentKeysAreNull(t *testing.T) {
	p := message.NewPayload("", "")
	p.AddEmbed(message.Embed{})

	out := decode(t, p)
	for _, k := range []string{"username", "avatar_url"} {
		v, ok := out[k]
		if !ok || v != nil {
			t.Fatalf("%s: expected present null, got %v (present=%v)", k, v, ok)
		}
	}

	embed := firstEmbed(t, out)
	for _, k := range []string{"title", "description", "url", "timestamp", "author", "footer"} {
		v, ok := embed[k]
		if !ok || v != nil {
			t.Fatalf("%s: expected present null, got %v (present=%v)", k, v, ok)
		}
	}
	for _, k := range []string{"fields", "image", "thumbnail"} {
		if _, ok := embed[k]; ok {
			t.Fatalf("%s: expected key to be omitted", k)
		}
	}
}

func TestFullEmbedWireFormat(t *testing.T) {
	ts := time.Date(2024, 3, 5, 10, 20, 30, 123_000_000, time.UTC)
	body := &message.Body{
		Title:       "Stage Changed [PRJ-1]\nFix login",
		Description: "Stage changed from Backlog to Done.",
		URL:         "https://tracker.example.com/issue/PRJ-1",
		Color:       "2196F3",
	}
	body.Stamp(ts)

	embed := message.Embed{
		Author:       message.NewAuthor("Jane Doe", "https://tracker.example.com/users/jane"),
		Body:         body,
		ImageURL:     "https://img.example.com/i.png",
		ThumbnailURL: "https://img.example.com/t.png",
		Footer:       message.NewFooter("Tracker Backend"),
	}
	embed.AddField("Watchers", "<@1>", false)

	p := message.NewPayload("Herald", "https://img.example.com/avatar.png")
	p.AddEmbed(embed)

	out := decode(t, p)
	if out["username"] != "Herald" || out["avatar_url"] != "https://img.example.com/avatar.png" {
		t.Fatalf("envelope: %v", out)
	}

	e := firstEmbed(t, out)
	if e["title"] != body.Title || e["description"] != body.Description || e["url"] != body.URL {
		t.Fatalf("body keys: %v", e)
	}
	if e["color"] != float64(0x2196F3) {
		t.Fatalf("color: %v", e["color"])
	}
	if e["timestamp"] != "2024-03-05T10:20:30.123Z" {
		t.Fatalf("timestamp: %v", e["timestamp"])
	}

	author := e["author"].(map[string]any)
	if author["name"] != "Jane Doe" || author["url"] != "https://tracker.example.com/users/jane" || author["icon_url"] != nil {
		t.Fatalf("author: %v", author)
	}

	fields := e["fields"].([]any)
	f := fields[0].(map[string]any)
	if f["name"] != "Watchers" || f["value"] != "<@1>" || f["inline"] != false {
		t.Fatalf("field: %v", f)
	}

	if e["image"].(map[string]any)["url"] != "https://img.example.com/i.png" {
		t.Fatalf("image: %v", e["image"])
	}
	if e["thumbnail"].(map[string]any)["url"] != "https://img.example.com/t.png" {
		t.Fatalf("thumbnail: %v", e["thumbnail"])
	}

	footer := e["footer"].(map[string]any)
	if footer["text"] != "Tracker Backend" || footer["icon_url"] != nil {
		t.Fatalf("footer: %v", footer)
	}
}

func TestInvalidColorFailsEncoding(t *testing.T) {
	p := message.NewPayload("", "")
	p.AddEmbed(message.Embed{Body: &message.Body{Color: "nope"}})

	if _, err := p.Encode(); !errors.Is(err, message.ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
}

func TestEmptyPayloadHasEmptyEmbedList(t *testing.T) {
	raw, err := message.NewPayload("", "").Encode()
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"username":null,"avatar_url":null,"embeds":[]}` {
		t.Fatalf("got %s", raw)
	}
}
