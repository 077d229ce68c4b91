// Package message models chat-webhook messages: a Payload carries one or more
// Embeds, each built from an Author, a Body, Fields and a Footer.
//
// Every type serializes to the wire schema accepted by Discord-compatible
// webhook endpoints. Optional strings left empty serialize as null; the
// "fields", "image" and "thumbnail" keys are omitted when unset.
package message

import (
	"encoding/json"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for embed timestamps (UTC,
// millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Author is the line shown above an embed's title.
type Author struct {
	Name    string
	URL     string
	IconURL string
}

// NewAuthor returns an Author with a name and a profile link.
func NewAuthor(name, url string) *Author {
	return &Author{Name: name, URL: url}
}

// MarshalJSON implements json.Marshaler.
func (a Author) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name    string  `json:"name"`
		URL     *string `json:"url"`
		IconURL *string `json:"icon_url"`
	}{a.Name, nullable(a.URL), nullable(a.IconURL)})
}

// Body holds the title, description, link, color and timestamp of an embed.
type Body struct {
	Title       string
	Description string
	URL         string
	Color       Color
	Timestamp   time.Time
}

// Stamp sets the body timestamp.
func (b *Body) Stamp(t time.Time) {
	b.Timestamp = t
}

// Field is a name/value pair rendered inside an embed.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Footer is the small text line at the bottom of an embed.
type Footer struct {
	Text    string
	IconURL string
}

// NewFooter returns a Footer with the given text.
func NewFooter(text string) *Footer {
	return &Footer{Text: text}
}

// MarshalJSON implements json.Marshaler.
func (f Footer) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Text    *string `json:"text"`
		IconURL *string `json:"icon_url"`
	}{nullable(f.Text), nullable(f.IconURL)})
}

// Embed is a single rich message block.
type Embed struct {
	Author       *Author
	Body         *Body
	Fields       []Field
	ImageURL     string
	ThumbnailURL string
	Footer       *Footer
}

// AddField appends a field to the embed.
func (e *Embed) AddField(name, value string, inline bool) {
	e.Fields = append(e.Fields, Field{Name: name, Value: value, Inline: inline})
}

type wireImage struct {
	URL string `json:"url"`
}

type wireEmbed struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	URL         *string    `json:"url"`
	Color       int        `json:"color"`
	Timestamp   *string    `json:"timestamp"`
	Author      *Author    `json:"author"`
	Fields      []Field    `json:"fields,omitempty"`
	Image       *wireImage `json:"image,omitempty"`
	Thumbnail   *wireImage `json:"thumbnail,omitempty"`
	Footer      *Footer    `json:"footer"`
}

// MarshalJSON implements json.Marshaler. It fails when the body color is not
// a valid hex color.
func (e Embed) MarshalJSON() ([]byte, error) {
	body := e.Body
	if body == nil {
		body = &Body{}
	}

	color, err := body.Color.Decimal()
	if err != nil {
		return nil, err
	}

	w := wireEmbed{
		Title:       nullable(body.Title),
		Description: nullable(body.Description),
		URL:         nullable(body.URL),
		Color:       color,
		Author:      e.Author,
		Fields:      e.Fields,
		Footer:      e.Footer,
	}
	if !body.Timestamp.IsZero() {
		ts := body.Timestamp.UTC().Format(TimestampLayout)
		w.Timestamp = &ts
	}
	if e.ImageURL != "" {
		w.Image = &wireImage{URL: e.ImageURL}
	}
	if e.ThumbnailURL != "" {
		w.Thumbnail = &wireImage{URL: e.ThumbnailURL}
	}

	return json.Marshal(w)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
