package security

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CaptchaVerifier checks a visitor's captcha response token. The proxy owns
// the verification secret; the wall client only ever sees the site key.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

const hcaptchaVerifyURL = "https://api.hcaptcha.com/siteverify"

type hcaptchaResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

type HCaptcha struct {
	Secret    string
	VerifyURL string

	http *http.Client
}

func NewHCaptcha(secret string) *HCaptcha {
	return &HCaptcha{
		Secret:    secret,
		VerifyURL: hcaptchaVerifyURL,
		http:      &http.Client{Timeout: 5 * time.Second},
	}
}

func (h *HCaptcha) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return fmt.Errorf("captcha token missing")
	}
	form := url.Values{}
	form.Set("secret", h.Secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.http.Do(req)
	if err != nil {
		return fmt.Errorf("captcha verify request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("captcha verify read: %w", err)
	}
	var out hcaptchaResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("captcha verify parse: %w", err)
	}
	if !out.Success {
		if len(out.ErrorCodes) > 0 {
			return fmt.Errorf("captcha rejected: %s", strings.Join(out.ErrorCodes, ","))
		}
		return fmt.Errorf("captcha rejected")
	}
	return nil
}

// AllowAll skips verification. Used when HCAPTCHA_SECRET is unset (local
// development) and in tests.
type AllowAll struct{}

func (AllowAll) Verify(ctx context.Context, token, remoteIP string) error { return nil }
