package domain

import (
	"time"
)

// UnknownCountry is stored when the visitor's country could not be determined.
const UnknownCountry = "XX"

// WebSubmitter is the sentinel submitter key used when IP detection failed.
const WebSubmitter = "web"

// Field limits enforced by the proxy before forwarding upstream.
const (
	MaxMessageLen = 500
	MaxUserLen    = 100
	MaxFeelingLen = 50
	MaxCountryLen = 10
)

// GreetingRecord is a single wall entry. Records are append-only: there is
// no update or delete anywhere in the system.
type GreetingRecord struct {
	Message     string `json:"message"`
	Feeling     string `json:"feeling"`
	CountryCode string `json:"country_code"`

	// SubmitterKey is the visitor's IP (or "web"). Used only for the
	// cooldown check, never rendered.
	SubmitterKey string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PresetMessages is the fixed list visitors pick from. Free-form text is
// never accepted.
var PresetMessages = []string{
	"Keep pushing, you're doing great!",
	"Proud of your work, keep it up.",
	"Inspiration for us all!",
	"Stay curious and keep building.",
	"Small steps lead to big changes.",
	"Keep the momentum going!",
	"Your dedication is truly admirable.",
	"Great things are coming your way!",
	"You make a real difference.",
	"Keep shining bright!",
	"Never stop learning and growing.",
	"Your work is truly inspiring!",
	"Thanks for sharing your knowledge.",
	"Interesting perspective on this.",
	"Saw your work, looks solid.",
	"Appreciate what you're building here.",
}

// IsPresetMessage reports whether text is one of the preset greetings.
func IsPresetMessage(text string) bool {
	for _, m := range PresetMessages {
		if m == text {
			return true
		}
	}
	return false
}
