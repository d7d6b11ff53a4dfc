package queue

import "context"

// Publisher announces wall activity. The proxy works fine without a broker:
// use NewNoop when RABBIT_URL is not set.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, event any, reqID string) error
	Close() error
}

type NoopPub struct{}

func NewNoop() Publisher { return NoopPub{} }

func (NoopPub) Publish(ctx context.Context, exchange, key string, event any, reqID string) error {
	return nil
}
func (NoopPub) Close() error { return nil }

// GreetingCreated is published after a record was accepted upstream.
// SubmitterKey is deliberately absent: it never leaves the proxy.
type GreetingCreated struct {
	Message     string `json:"message"`
	Feeling     string `json:"feeling"`
	CountryCode string `json:"country_code"`
}
