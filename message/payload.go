package message

import "encoding/json"

// Payload is the envelope POSTed to a webhook endpoint.
type Payload struct {
	Username  string
	AvatarURL string
	Embeds    []Embed
}

// NewPayload returns an empty payload sent under the given display name and
// avatar.
func NewPayload(username, avatarURL string) *Payload {
	return &Payload{Username: username, AvatarURL: avatarURL}
}

// AddEmbed appends an embed to the payload.
func (p *Payload) AddEmbed(e Embed) {
	p.Embeds = append(p.Embeds, e)
}

// MarshalJSON implements json.Marshaler.
func (p Payload) MarshalJSON() ([]byte, error) {
	embeds := p.Embeds
	if embeds == nil {
		embeds = []Embed{}
	}
	return json.Marshal(struct {
		Username  *string `json:"username"`
		AvatarURL *string `json:"avatar_url"`
		Embeds    []Embed `json:"embeds"`
	}{nullable(p.Username), nullable(p.AvatarURL), embeds})
}

// Encode serializes the payload to its wire form.
func (p *Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}
