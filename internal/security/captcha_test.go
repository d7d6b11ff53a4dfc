package security

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verifier(t *testing.T, answer string) *HCaptcha {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "sec", r.Form.Get("secret"))
		_, _ = w.Write([]byte(answer))
	}))
	t.Cleanup(srv.Close)
	h := NewHCaptcha("sec")
	h.VerifyURL = srv.URL
	return h
}

func TestVerify_Success(t *testing.T) {
	h := verifier(t, `{"success":true,"hostname":"emiliodom.github.io"}`)
	assert.NoError(t, h.Verify(context.Background(), "tok", "203.0.113.5"))
}

func TestVerify_Rejected(t *testing.T) {
	h := verifier(t, `{"success":false,"error-codes":["invalid-input-response"]}`)
	err := h.Verify(context.Background(), "tok", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid-input-response")
}

func TestVerify_EmptyToken(t *testing.T) {
	h := NewHCaptcha("sec")
	assert.Error(t, h.Verify(context.Background(), "", ""))
}
