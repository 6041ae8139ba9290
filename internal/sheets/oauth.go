package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// DefaultCallbackAddr is where the interactive flow listens for the redirect.
const DefaultCallbackAddr = "localhost:8080"

const defaultAuthTimeout = 5 * time.Minute

// ErrAuthTimeout is returned when the browser never completes the consent screen.
var ErrAuthTimeout = errors.New("authentication timed out")

// OAuth2Config describes the installed-app flow used by `budjet auth sheets`.
type OAuth2Config struct {
	Out          io.Writer // Receives the consent URL; defaults to stdout
	ClientID     string
	ClientSecret string
	TokenFile    string
	CallbackAddr string
	Timeout      time.Duration
}

func (c OAuth2Config) addr() string {
	if c.CallbackAddr == "" {
		return DefaultCallbackAddr
	}
	return c.CallbackAddr
}

func (c OAuth2Config) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://" + c.addr() + "/callback",
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

const (
	successPage = `<html><body><h1>Budjet is connected to Google Sheets</h1><p>You can close this window.</p></body></html>`
	failurePage = `<html><body><h1>Authentication failed</h1><p>%s</p></body></html>`
)

// callbackHandler receives the redirect from Google and delivers exactly one
// result: an authorization code or an error.
type callbackHandler struct {
	state  string
	codes  chan string
	errors chan error
}

func newCallbackHandler(state string) *callbackHandler {
	return &callbackHandler{
		state:  state,
		codes:  make(chan string, 1),
		errors: make(chan error, 1),
	}
}

func (h *callbackHandler) fail(w http.ResponseWriter, status int, err error) {
	select {
	case h.errors <- err:
	default:
	}
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, failurePage, err.Error())
}

func (h *callbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	switch {
	case query.Get("state") != h.state:
		h.fail(w, http.StatusBadRequest, errors.New("oauth state mismatch"))
	case query.Get("error") != "":
		h.fail(w, http.StatusForbidden, fmt.Errorf("consent denied: %s", query.Get("error")))
	case query.Get("code") == "":
		h.fail(w, http.StatusBadRequest, errors.New("no authorization code received"))
	default:
		select {
		case h.codes <- query.Get("code"):
		default:
		}
		_, _ = io.WriteString(w, successPage)
	}
}

// wait blocks until the callback fires, ctx ends or timeout passes.
func (h *callbackHandler) wait(ctx context.Context, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case code := <-h.codes:
		return code, nil
	case err := <-h.errors:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", fmt.Errorf("%w after %s", ErrAuthTimeout, timeout)
	}
}

// AuthenticateOAuth2Interactive prints a consent URL, waits for Google to
// redirect back to a local server and exchanges the code for a token.
// The token is saved to TokenFile when one is set.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	oauthConfig := config.oauthConfig()
	handler := newCallbackHandler(uuid.NewString())

	mux := http.NewServeMux()
	mux.Handle("/callback", handler)
	server := &http.Server{Addr: config.addr(), Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case handler.errors <- fmt.Errorf("failed to start callback server: %w", err):
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Error shutting down callback server", "error", err)
		}
	}()

	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	authURL := oauthConfig.AuthCodeURL(handler.state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	_, _ = fmt.Fprintf(out, "Visit this URL to connect budjet to Google Sheets:\n\n  %s\n\nWaiting for authentication...\n", authURL)

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultAuthTimeout
	}
	code, err := handler.wait(ctx, timeout)
	if err != nil {
		return nil, err
	}
	slog.Info("Received authorization code")

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	config.persist(token)
	return token, nil
}

// persist writes token to TokenFile. Failures are logged, not returned,
// since the token is still usable for this run.
func (c OAuth2Config) persist(token *oauth2.Token) {
	if c.TokenFile == "" {
		return
	}
	if err := saveToken(c.TokenFile, token); err != nil {
		slog.Warn("Failed to save token", "error", err, "file", c.TokenFile)
		return
	}
	slog.Info("Token saved", "file", c.TokenFile)
}

// LoadToken reads a token saved by a previous authentication.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	data, err := os.ReadFile(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("failed to decode token %s: %w", tokenFile, err)
	}
	return token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// RefreshTokenIfNeeded returns token unchanged while it is valid, otherwise
// a refreshed token which is also saved.
func RefreshTokenIfNeeded(ctx context.Context, config OAuth2Config, token *oauth2.Token) (*oauth2.Token, error) {
	if token.Valid() {
		return token, nil
	}

	slog.Info("Token expired, refreshing")
	fresh, err := config.oauthConfig().TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	config.persist(fresh)
	return fresh, nil
}

// GetOrCreateToken reuses the saved token when there is one and runs the
// interactive flow otherwise.
func GetOrCreateToken(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	if config.TokenFile != "" {
		token, err := LoadToken(config.TokenFile)
		if err == nil {
			slog.Info("Loaded existing token", "file", config.TokenFile)
			return RefreshTokenIfNeeded(ctx, config, token)
		}
		slog.Info("No usable token found, starting OAuth2 flow", "error", err)
	}

	return AuthenticateOAuth2Interactive(ctx, config)
}
