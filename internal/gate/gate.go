// Package gate decides whether a visitor may post a new greeting right now.
// The fetched record list is the source of truth; the gate itself never
// mutates remote state.
package gate

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/emiliodom/greetings-wall/internal/domain"
)

// Result of a gate check. When blocked, HoursLeft/MinutesLeft carry the
// remaining wait rounded up for display.
type Result struct {
	Allowed     bool
	HoursLeft   int
	MinutesLeft int
}

// Check scans records for the most recent entry by key inside the cooldown
// window. Entries with a zero CreatedAt count as not recent: the gate fails
// open rather than locking a visitor out over a bad timestamp.
func Check(key string, records []domain.GreetingRecord, cooldown time.Duration, now time.Time) Result {
	var newest time.Time
	for _, r := range records {
		if r.SubmitterKey == "" || r.SubmitterKey != key {
			continue
		}
		if r.CreatedAt.IsZero() {
			continue
		}
		if now.Sub(r.CreatedAt) >= cooldown {
			continue
		}
		if r.CreatedAt.After(newest) {
			newest = r.CreatedAt
		}
	}
	if newest.IsZero() {
		return Result{Allowed: true}
	}
	remaining := cooldown - now.Sub(newest)
	// whole hours, ceiling: 3h20m left reads as "wait 4 more hours"
	hours := int(remaining / time.Hour)
	leftover := remaining % time.Hour
	minutes := int((leftover + time.Minute - 1) / time.Minute)
	if leftover > 0 {
		hours++
	}
	if hours < 1 {
		hours = 1
	}
	if minutes == 60 {
		minutes = 0
	}
	return Result{Allowed: false, HoursLeft: hours, MinutesLeft: minutes}
}

// WaitText renders a blocked result for the visitor.
func (r Result) WaitText() string {
	if r.Allowed {
		return ""
	}
	unit := "hours"
	if r.HoursLeft == 1 {
		unit = "hour"
	}
	return fmt.Sprintf("you already submitted a greeting in the last 24 hours, wait %d more %s", r.HoursLeft, unit)
}

// Fingerprint is the advisory duplicate filter: a stable hash of
// submitter key and message text. Identical (key, message) pairs always
// collide, which is the point.
func Fingerprint(key, message string) string {
	h := xxhash.New()
	_, _ = h.WriteString(key)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(message)
	return strconv.FormatUint(h.Sum64(), 16)
}
