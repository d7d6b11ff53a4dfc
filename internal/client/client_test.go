package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliodom/greetings-wall/internal/domain"
)

func newTestClient(t *testing.T, srv *httptest.Server) (*Client, *[]time.Duration) {
	t.Helper()
	c := New(srv.URL, DefaultRetryPolicy())
	delays := &[]time.Duration{}
	c.sleep = func(d time.Duration) { *delays = append(*delays, d) }
	c.now = func() time.Time { return time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC) }
	return c, delays
}

func TestFetchList_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list":[{"Message":"Keep shining bright!","User":"203.0.113.5","Notes":"😊","Country":"GT","CreatedAt":"2025-10-14T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	c, delays := newTestClient(t, srv)
	records, err := c.FetchList(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Keep shining bright!", records[0].Message)

	assert.EqualValues(t, 3, calls)
	require.Len(t, *delays, 2, "two failures mean exactly two inter-attempt delays")
	for _, d := range *delays {
		assert.LessOrEqual(t, d, 5*time.Second)
	}
	assert.Equal(t, time.Second, (*delays)[0])
	assert.Equal(t, 2*time.Second, (*delays)[1])
}

func TestFetchList_ExhaustedAttemptsSurfaceLastError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, delays := newTestClient(t, srv)
	_, err := c.FetchList(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Len(t, *delays, 2)
}

func TestSubmit_BadRequestIsTerminal(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"missing required fields"}`))
	}))
	defer srv.Close()

	c, delays := newTestClient(t, srv)
	err := c.Submit(context.Background(), domain.GreetingRecord{}, "tok")
	require.Error(t, err)

	var rej *RejectedError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, http.StatusBadRequest, rej.Status)
	assert.Equal(t, "missing required fields", rej.Message)

	assert.EqualValues(t, 1, calls, "400 must not be retried")
	assert.Empty(t, *delays)
}

func TestSubmit_ForbiddenIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"forbidden"}`))
	}))
	defer srv.Close()

	c, delays := newTestClient(t, srv)
	err := c.Submit(context.Background(), domain.GreetingRecord{Message: "hi"}, "tok")

	var rej *RejectedError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, http.StatusForbidden, rej.Status)
	assert.Empty(t, *delays)
}

func TestSubmit_PostsFlatBodyWithToken(t *testing.T) {
	var got submitBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/greetings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"Id":1}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	rec := domain.GreetingRecord{
		Message:      "Stay curious and keep building.",
		Feeling:      "😊",
		CountryCode:  "GT",
		SubmitterKey: "203.0.113.5",
	}
	require.NoError(t, c.Submit(context.Background(), rec, "captcha-tok"))

	assert.Equal(t, "Stay curious and keep building.", got.Message)
	assert.Equal(t, "203.0.113.5", got.User)
	assert.Equal(t, "😊", got.Notes)
	assert.Equal(t, "GT", got.Country)
	assert.Equal(t, "captcha-tok", got.CaptchaToken)
}

func TestSubmit_DefaultsCountry(t *testing.T) {
	var got submitBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	require.NoError(t, c.Submit(context.Background(), domain.GreetingRecord{Message: "hi", SubmitterKey: "web"}, "t"))
	assert.Equal(t, domain.UnknownCountry, got.Country)
}

func TestRetryPolicy_Delay(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, time.Second, p.Delay(0))
	assert.Equal(t, 2*time.Second, p.Delay(1))
	assert.Equal(t, 4*time.Second, p.Delay(2))
	assert.Equal(t, 5*time.Second, p.Delay(3), "capped at MaxDelay")
	assert.Equal(t, 5*time.Second, p.Delay(10))
}
