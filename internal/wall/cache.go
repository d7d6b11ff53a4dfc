package wall

import (
	"encoding/json"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/emiliodom/greetings-wall/internal/domain"
	"github.com/emiliodom/greetings-wall/internal/log"
)

// Cache is the best-effort local fallback: it remembers this visitor's own
// submissions so the gate and the wall still work when the proxy does not
// answer. It is never consulted for the gate while the remote list is
// reachable, and all of its I/O failures are soft.
type Cache struct {
	path string

	Submissions  map[string]time.Time    `json:"submissions"`  // submitter key -> last accepted
	Fingerprints map[string]time.Time    `json:"fingerprints"` // dedup hash -> when
	Entries      []domain.GreetingRecord `json:"entries"`      // own entries, display fallback
}

func OpenCache(path string) *Cache {
	c := &Cache{
		path:         path,
		Submissions:  make(map[string]time.Time),
		Fingerprints: make(map[string]time.Time),
	}
	if path == "" {
		return c
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(data, c); err != nil {
		log.L().Warn("submission cache unreadable, starting fresh", zap.String("path", path), zap.Error(err))
	}
	if c.Submissions == nil {
		c.Submissions = make(map[string]time.Time)
	}
	if c.Fingerprints == nil {
		c.Fingerprints = make(map[string]time.Time)
	}
	return c
}

func (c *Cache) save() {
	if c.path == "" {
		return
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		log.L().Warn("submission cache write failed", zap.String("path", c.path), zap.Error(err))
	}
}

// MarkSubmitted records an accepted submission for gate fallback and dedup.
func (c *Cache) MarkSubmitted(key, fingerprint string, rec domain.GreetingRecord) {
	c.Submissions[key] = rec.CreatedAt
	c.Fingerprints[fingerprint] = rec.CreatedAt
	c.Entries = append(c.Entries, rec)
	c.save()
}

// LastSubmission is the gate fallback when the remote list is unreachable.
func (c *Cache) LastSubmission(key string) (time.Time, bool) {
	t, ok := c.Submissions[key]
	return t, ok
}

// SeenFingerprint reports when an identical (key, message) pair was last
// accepted.
func (c *Cache) SeenFingerprint(fp string) (time.Time, bool) {
	t, ok := c.Fingerprints[fp]
	return t, ok
}
