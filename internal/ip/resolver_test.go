package ip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emiliodom/greetings-wall/internal/domain"
)

func ipServer(answer string, status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(answer))
	}))
}

func TestResolve_Primary(t *testing.T) {
	primary := ipServer(`{"ip":"203.0.113.5"}`, http.StatusOK)
	defer primary.Close()

	r := NewResolver(primary.URL, "")
	assert.Equal(t, "203.0.113.5", r.Resolve(context.Background()))
}

func TestResolve_FallsBack(t *testing.T) {
	primary := ipServer(`oops`, http.StatusInternalServerError)
	defer primary.Close()
	fallback := ipServer(`{"ip":"198.51.100.9"}`, http.StatusOK)
	defer fallback.Close()

	r := NewResolver(primary.URL, fallback.URL)
	assert.Equal(t, "198.51.100.9", r.Resolve(context.Background()))
}

func TestResolve_BothFailYieldsWebSentinel(t *testing.T) {
	primary := ipServer(``, http.StatusBadGateway)
	defer primary.Close()
	fallback := ipServer(`{"ip":"unknown"}`, http.StatusOK)
	defer fallback.Close()

	r := NewResolver(primary.URL, fallback.URL)
	assert.Equal(t, domain.WebSubmitter, r.Resolve(context.Background()))
}

func TestResolve_NoEndpoints(t *testing.T) {
	r := NewResolver("", "")
	assert.Equal(t, domain.WebSubmitter, r.Resolve(context.Background()))
}
