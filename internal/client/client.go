// Package client talks to the proxy endpoint with bounded retry and
// exponential backoff. It never holds a database credential: auth is the
// proxy's problem.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/emiliodom/greetings-wall/internal/domain"
	"github.com/emiliodom/greetings-wall/internal/log"
)

// RejectedError is a terminal 400/403 from the proxy: a definitive
// rejection, never retried.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rejected (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("rejected (%d)", e.Status)
}

type Client struct {
	base  string
	http  *http.Client
	retry RetryPolicy

	// sleep and now are swapped out in tests
	sleep func(time.Duration)
	now   func() time.Time
}

func New(baseURL string, policy RetryPolicy) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		http:  &http.Client{Timeout: 10 * time.Second},
		retry: policy,
		sleep: time.Sleep,
		now:   time.Now,
	}
}

// do runs one request per attempt, retrying network errors and any status
// outside 2xx/400/403. A 400 or 403 comes back immediately as a
// RejectedError with the server's reason when it sent one.
func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			c.sleep(c.retry.Delay(attempt - 1))
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			log.L().Warn("request failed", zap.String("url", url), zap.Int("attempt", attempt+1), zap.Error(err))
			continue
		}
		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if readErr != nil {
				lastErr = readErr
				continue
			}
			return data, nil
		case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusForbidden:
			return nil, &RejectedError{Status: resp.StatusCode, Message: errorText(data)}
		default:
			lastErr = fmt.Errorf("http %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
			log.L().Warn("request failed", zap.String("url", url), zap.Int("attempt", attempt+1), zap.Error(lastErr))
		}
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", c.retry.MaxAttempts, lastErr)
}

func errorText(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

// FetchList GETs the wall and normalizes whatever shape came back.
func (c *Client) FetchList(ctx context.Context) ([]domain.GreetingRecord, error) {
	body, err := c.do(ctx, http.MethodGet, c.base+"/greetings", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch greetings: %w", err)
	}
	return Normalize(body, c.now())
}

type submitBody struct {
	Message      string `json:"Message"`
	User         string `json:"User"`
	Notes        string `json:"Notes"`
	Country      string `json:"Country"`
	CaptchaToken string `json:"captchaToken"`
}

// Submit POSTs one record plus the visitor's captcha verification token.
// Field names match the remote schema: User carries the submitter key and
// Notes the feeling emoji.
func (c *Client) Submit(ctx context.Context, rec domain.GreetingRecord, captchaToken string) error {
	country := rec.CountryCode
	if country == "" {
		country = domain.UnknownCountry
	}
	payload, err := json.Marshal(submitBody{
		Message:      rec.Message,
		User:         rec.SubmitterKey,
		Notes:        rec.Feeling,
		Country:      country,
		CaptchaToken: captchaToken,
	})
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, http.MethodPost, c.base+"/greetings", payload); err != nil {
		return fmt.Errorf("submit greeting: %w", err)
	}
	return nil
}
