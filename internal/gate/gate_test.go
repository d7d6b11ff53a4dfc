package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/emiliodom/greetings-wall/internal/domain"
)

const cooldown = 24 * time.Hour

func rec(key string, created time.Time) domain.GreetingRecord {
	return domain.GreetingRecord{
		Message:      "Keep shining bright!",
		Feeling:      "😊",
		CountryCode:  "GT",
		SubmitterKey: key,
		CreatedAt:    created,
	}
}

func TestCheck_RecentSubmissionBlocks(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	records := []domain.GreetingRecord{
		rec("203.0.113.5", now.Add(-3*time.Hour)),
		rec("198.51.100.9", now.Add(-time.Hour)),
	}

	res := Check("203.0.113.5", records, cooldown, now)
	assert.False(t, res.Allowed)
	assert.GreaterOrEqual(t, res.HoursLeft, 1)
	assert.Equal(t, 21, res.HoursLeft) // 21h left, whole hours
	assert.NotEmpty(t, res.WaitText())
}

func TestCheck_HoursRoundUp(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	// 20h30m ago -> 3h30m remaining -> reads as 4 hours
	records := []domain.GreetingRecord{rec("203.0.113.5", now.Add(-20*time.Hour - 30*time.Minute))}

	res := Check("203.0.113.5", records, cooldown, now)
	assert.False(t, res.Allowed)
	assert.Equal(t, 4, res.HoursLeft)
	assert.Equal(t, 30, res.MinutesLeft)
}

func TestCheck_OldSubmissionAllows(t *testing.T) {
	now := time.Now().UTC()
	records := []domain.GreetingRecord{
		rec("203.0.113.5", now.Add(-25*time.Hour)),
		rec("203.0.113.5", now.Add(-72*time.Hour)),
	}

	res := Check("203.0.113.5", records, cooldown, now)
	assert.True(t, res.Allowed)
	assert.Empty(t, res.WaitText())
}

func TestCheck_OtherSubmittersIgnored(t *testing.T) {
	now := time.Now().UTC()
	records := []domain.GreetingRecord{rec("198.51.100.9", now.Add(-time.Minute))}

	assert.True(t, Check("203.0.113.5", records, cooldown, now).Allowed)
}

func TestCheck_MissingCreatedAtFailsOpen(t *testing.T) {
	// An unparsable upstream date arrives here as a zero time. Policy:
	// treat as not recent, never lock the visitor out.
	now := time.Now().UTC()
	records := []domain.GreetingRecord{rec("203.0.113.5", time.Time{})}

	assert.True(t, Check("203.0.113.5", records, cooldown, now).Allowed)
}

func TestCheck_NewestEntryWins(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	records := []domain.GreetingRecord{
		rec("203.0.113.5", now.Add(-23*time.Hour)),
		rec("203.0.113.5", now.Add(-2*time.Hour)),
		rec("203.0.113.5", now.Add(-10*time.Hour)),
	}

	res := Check("203.0.113.5", records, cooldown, now)
	assert.False(t, res.Allowed)
	assert.Equal(t, 22, res.HoursLeft)
}

func TestCheck_EmptyListAllows(t *testing.T) {
	assert.True(t, Check("203.0.113.5", nil, cooldown, time.Now()).Allowed)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("203.0.113.5", "Stay curious and keep building.")
	b := Fingerprint("203.0.113.5", "Stay curious and keep building.")
	c := Fingerprint("203.0.113.5", "Keep shining bright!")
	d := Fingerprint("web", "Stay curious and keep building.")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.NotEmpty(t, a)
}
