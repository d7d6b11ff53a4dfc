// Package wall drives one visitor's session: validate the selection, check
// the captcha token, resolve the IP, run the submission gate against the
// freshly fetched wall, submit, refetch. Steps are strictly sequential and
// every failure short-circuits the rest.
package wall

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/emiliodom/greetings-wall/internal/client"
	"github.com/emiliodom/greetings-wall/internal/config"
	"github.com/emiliodom/greetings-wall/internal/domain"
	"github.com/emiliodom/greetings-wall/internal/gate"
	"github.com/emiliodom/greetings-wall/internal/ip"
	"github.com/emiliodom/greetings-wall/internal/log"
	"github.com/emiliodom/greetings-wall/internal/page"
)

// ErrSubmissionInFlight means a submit is already running in this session.
// One tab, one submission at a time.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// ValidationError reports a missing or invalid selection. No network call
// was made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Reason }

// BlockedError carries the gate's verdict and the human-readable wait.
type BlockedError struct {
	Result gate.Result
}

func (e *BlockedError) Error() string { return e.Result.WaitText() }

// DuplicateError is the advisory fingerprint filter firing.
type DuplicateError struct {
	Fingerprint string
}

func (e *DuplicateError) Error() string {
	return "duplicate submission detected (same visitor and message within the cooldown)"
}

// Selection is what the visitor picked on the form.
type Selection struct {
	Message     string
	Feeling     string
	CountryCode string
}

// SubmitResult is what the UI renders after a successful submission.
type SubmitResult struct {
	Records   []domain.GreetingRecord
	FirstPage []domain.GreetingRecord
	Pages     int
}

// Session is request-scoped state for one page load. No globals: everything
// the flow needs travels with it.
type Session struct {
	cfg      config.Wall
	client   *client.Client
	resolver *ip.Resolver
	cache    *Cache

	now      func() time.Time
	inFlight atomic.Bool
}

func NewSession(cfg config.Wall) *Session {
	policy := client.RetryPolicy{
		MaxAttempts:  cfg.Retry.MaxAttempts,
		InitialDelay: time.Duration(cfg.Retry.InitialDelayMS) * time.Millisecond,
		MaxDelay:     time.Duration(cfg.Retry.MaxDelayMS) * time.Millisecond,
		Multiplier:   cfg.Retry.Multiplier,
	}
	return &Session{
		cfg:      cfg,
		client:   client.New(cfg.ProxyURL, policy),
		resolver: ip.NewResolver(cfg.ProxyURL+"/ip", cfg.FallbackIPURL),
		cache:    OpenCache(cfg.CachePath),
		now:      time.Now,
	}
}

// Wall returns the current record list, falling back to the visitor's own
// cached entries when the proxy does not answer.
func (s *Session) Wall(ctx context.Context) ([]domain.GreetingRecord, error) {
	records, err := s.client.FetchList(ctx)
	if err != nil {
		log.L().Warn("wall fetch failed, showing cached entries", zap.Error(err))
		return s.cache.Entries, err
	}
	return records, nil
}

// Page slices the wall for display.
func (s *Session) Page(records []domain.GreetingRecord, pageNumber int) []domain.GreetingRecord {
	return page.Slice(records, pageNumber, s.cfg.PageSize)
}

func (s *Session) TotalPages(records []domain.GreetingRecord) int {
	return page.TotalPages(len(records), s.cfg.PageSize)
}

func validate(sel Selection) error {
	if sel.Message == "" {
		return &ValidationError{Field: "message", Reason: "choose a message"}
	}
	if !domain.IsPresetMessage(sel.Message) {
		return &ValidationError{Field: "message", Reason: "not one of the preset messages"}
	}
	if sel.Feeling == "" {
		return &ValidationError{Field: "feeling", Reason: "select how you're feeling"}
	}
	if len([]rune(sel.Feeling)) > domain.MaxFeelingLen {
		return &ValidationError{Field: "feeling", Reason: "too long"}
	}
	if sel.CountryCode == "" {
		return &ValidationError{Field: "country", Reason: "select your country"}
	}
	return nil
}

// Submit runs the whole flow once. captchaToken is the verification token
// produced by the captcha widget; the proxy does the actual verification.
func (s *Session) Submit(ctx context.Context, sel Selection, captchaToken string) (*SubmitResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	if err := validate(sel); err != nil {
		return nil, err
	}
	if captchaToken == "" {
		return nil, &ValidationError{Field: "captcha", Reason: "verification token missing"}
	}

	now := s.now()
	key := s.resolver.Resolve(ctx)

	records, fetchErr := s.client.FetchList(ctx)
	if fetchErr == nil {
		if res := gate.Check(key, records, s.cfg.Cooldown(), now); !res.Allowed {
			return nil, &BlockedError{Result: res}
		}
	} else {
		// Remote list unreachable: the gate fails open, with the local
		// cache as the only (best-effort) guard.
		log.L().Warn("gate fetch failed, falling back to local cache", zap.Error(fetchErr))
		if last, ok := s.cache.LastSubmission(key); ok && now.Sub(last) < s.cfg.Cooldown() {
			res := gate.Check(key, []domain.GreetingRecord{{SubmitterKey: key, CreatedAt: last}}, s.cfg.Cooldown(), now)
			return nil, &BlockedError{Result: res}
		}
	}

	fp := gate.Fingerprint(key, sel.Message)
	if seen, ok := s.cache.SeenFingerprint(fp); ok && now.Sub(seen) < s.cfg.Cooldown() {
		return nil, &DuplicateError{Fingerprint: fp}
	}

	rec := domain.GreetingRecord{
		Message:      sel.Message,
		Feeling:      sel.Feeling,
		CountryCode:  sel.CountryCode,
		SubmitterKey: key,
		CreatedAt:    now,
	}
	if err := s.client.Submit(ctx, rec, captchaToken); err != nil {
		return nil, fmt.Errorf("submission failed: %w", err)
	}
	s.cache.MarkSubmitted(key, fp, rec)

	// Refetch so the wall shows the authoritative list; on failure render
	// what we had plus our own entry.
	fresh, err := s.client.FetchList(ctx)
	if err != nil {
		log.L().Warn("refetch after submit failed", zap.Error(err))
		fresh = append(records, rec)
	}
	return &SubmitResult{
		Records:   fresh,
		FirstPage: s.Page(fresh, 1),
		Pages:     s.TotalPages(fresh),
	}, nil
}
