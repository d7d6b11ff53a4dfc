// Package repo holds the proxy's upstream collaborators: the NocoDB table
// the wall lives in, and the optional Redis backend for the submit rate
// limiter. The proxy forwards, it does not own storage.
package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// NocoDB is the upstream table client. The xc-token is injected here and
// never travels back to the browser side.
type NocoDB struct {
	URL   string
	Token string

	http *http.Client
}

func NewNocoDB(url, token string) *NocoDB {
	return &NocoDB{
		URL:   url,
		Token: token,
		http:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ListRecords returns the raw upstream list body untouched: shape
// normalization is the wall client's concern, not the proxy's.
func (n *NocoDB) ListRecords(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("xc-token", n.Token)

	resp, err := n.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nocodb get: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nocodb read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nocodb get failed: %d", resp.StatusCode)
	}
	return body, nil
}

// Row is the flat v2 record shape the table expects.
type Row struct {
	Message string `json:"Message"`
	User    string `json:"User"`
	Notes   string `json:"Notes"`
	Country string `json:"Country"`
}

// CreateRecord inserts one row and returns the upstream ack body.
func (n *NocoDB) CreateRecord(ctx context.Context, row Row) ([]byte, error) {
	payload, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xc-token", n.Token)

	resp, err := n.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nocodb post: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nocodb read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("nocodb post failed: %d %s", resp.StatusCode, body)
	}
	return body, nil
}
