package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, saveToken(path, token))

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))
}

func TestLoadToken_Missing(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestOAuth2Config_RedirectURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/callback", OAuth2Config{}.oauthConfig().RedirectURL)
	assert.Equal(t, "http://127.0.0.1:9999/callback", OAuth2Config{CallbackAddr: "127.0.0.1:9999"}.oauthConfig().RedirectURL)
}

func callback(t *testing.T, h *callbackHandler, query string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?"+query, nil))
	return rec
}

func TestCallbackHandler_DeliversCode(t *testing.T) {
	h := newCallbackHandler("xyz")

	rec := callback(t, h, "state=xyz&code=abc")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "connected")

	code, err := h.wait(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "abc", code)
}

func TestCallbackHandler_Failures(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
		errMsg string
	}{
		{name: "state mismatch", query: "state=other&code=abc", status: http.StatusBadRequest, errMsg: "state mismatch"},
		{name: "consent denied", query: "state=xyz&error=access_denied", status: http.StatusForbidden, errMsg: "access_denied"},
		{name: "missing code", query: "state=xyz", status: http.StatusBadRequest, errMsg: "no authorization code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newCallbackHandler("xyz")

			rec := callback(t, h, tt.query)
			assert.Equal(t, tt.status, rec.Code)

			_, err := h.wait(context.Background(), time.Second)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestCallbackHandler_RepeatedCallbacksDoNotBlock(t *testing.T) {
	h := newCallbackHandler("xyz")
	callback(t, h, "state=xyz&code=first")
	callback(t, h, "state=xyz&code=second")

	code, err := h.wait(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "first", code)
}

func TestCallbackHandler_Timeout(t *testing.T) {
	h := newCallbackHandler("xyz")

	_, err := h.wait(context.Background(), time.Millisecond)
	require.ErrorIs(t, err, ErrAuthTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.wait(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGetOrCreateToken_ReusesValidToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, saveToken(path, &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}))

	token, err := GetOrCreateToken(context.Background(), OAuth2Config{TokenFile: path})
	require.NoError(t, err)
	assert.Equal(t, "access", token.AccessToken)
}

func TestLoadToken_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadToken(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode token")
}
