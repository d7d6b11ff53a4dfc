// Package ip resolves the visitor's public address through a degraded-mode
// chain: the proxy's /ip endpoint first, a public lookup service second,
// and the "web" sentinel when both fail. IP resolution must never block
// the submission flow.
package ip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/emiliodom/greetings-wall/internal/domain"
	"github.com/emiliodom/greetings-wall/internal/log"
)

type Resolver struct {
	PrimaryURL  string
	FallbackURL string

	http *http.Client
}

func NewResolver(primaryURL, fallbackURL string) *Resolver {
	return &Resolver{
		PrimaryURL:  primaryURL,
		FallbackURL: fallbackURL,
		http:        &http.Client{Timeout: 5 * time.Second},
	}
}

// Resolve returns the visitor's IP, or domain.WebSubmitter when neither
// endpoint answered. It never returns an error: a failed lookup degrades,
// it does not abort.
func (r *Resolver) Resolve(ctx context.Context) string {
	if ip, err := r.lookup(ctx, r.PrimaryURL); err == nil {
		return ip
	} else {
		log.L().Warn("primary ip lookup failed", zap.Error(err))
	}
	if ip, err := r.lookup(ctx, r.FallbackURL); err == nil {
		return ip
	} else {
		log.L().Warn("fallback ip lookup failed", zap.Error(err))
	}
	return domain.WebSubmitter
}

func (r *Resolver) lookup(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("no endpoint configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("accept", "application/json")
	resp, err := r.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ip lookup: http %d", resp.StatusCode)
	}
	var out struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.IP == "" || out.IP == "unknown" {
		return "", fmt.Errorf("ip lookup: empty answer")
	}
	return out.IP, nil
}
