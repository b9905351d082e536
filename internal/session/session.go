// Package session manages the auth token lifecycle on top of the API client.
//
// The client only ever reads the token; logging in, refreshing and logging out
// are the Manager's job. Tokens are kept in a credentials.Vault, either in the
// persistent ("remember me") scope or in the session scope.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/storefront-dev/storefront/internal/client"
	"github.com/storefront-dev/storefront/internal/credentials"
)

// ErrNoToken is returned when the API accepted a login or refresh but sent no token back.
var ErrNoToken = errors.New("auth response did not include a token")

// TokenStatus describes the locally stored token.
type TokenStatus int

const (
	TokenMissing TokenStatus = iota
	TokenExpired
	TokenValid
)

var tokenStatusNames = []string{"TokenMissing", "TokenExpired", "TokenValid"}

func (t TokenStatus) String() string {
	if t < 0 || int(t) >= len(tokenStatusNames) {
		return fmt.Sprintf("TokenStatus(%d)", int(t))
	}
	return tokenStatusNames[t]
}

// Manager logs users in and out and keeps the vault in step with the API.
type Manager struct {
	client *client.Client
	vault  *credentials.Vault
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a Manager. c should read its token from vault.
func NewManager(c *client.Client, vault *credentials.Vault, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		client: c,
		vault:  vault,
		logger: logger,
		now:    time.Now,
	}
}

// Login authenticates against the API and stores the returned token, in the
// persistent scope when remember is set and in the session scope otherwise.
func (m *Manager) Login(ctx context.Context, email, password string, remember bool) (*client.AuthResponse, error) {
	var res client.AuthResponse
	if err := m.client.Auth.Login(ctx, email, password, &res); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, ErrNoToken
	}

	if err := m.vault.Save(ctx, res.Token, remember); err != nil {
		return nil, fmt.Errorf("storing token: %w", err)
	}

	scope := credentials.ScopeSession
	if remember {
		scope = credentials.ScopePersistent
	}
	m.logger.Info("logged in", slog.String("email", email), slog.String("scope", scope.String()))
	return &res, nil
}

// Logout tells the API the token is no longer used and clears it locally.
// The local clear always happens; an API failure is returned afterwards.
func (m *Manager) Logout(ctx context.Context) error {
	token, err := m.vault.Token(ctx)
	if err != nil {
		return err
	}

	var apiErr error
	if token != "" {
		apiErr = m.client.Auth.Logout(ctx, nil)
		if apiErr != nil {
			m.logger.Warn("api logout failed", slog.String("error", logMessage(apiErr)))
		}
	}

	if err := m.vault.Clear(ctx); err != nil {
		return errors.Join(fmt.Errorf("clearing token: %w", err), apiErr)
	}
	m.logger.Info("logged out")
	return apiErr
}

// Refresh exchanges the stored token for a new one, keeping it in the same scope.
func (m *Manager) Refresh(ctx context.Context) (*client.AuthResponse, error) {
	scope, err := m.vault.ScopeOf(ctx)
	if err != nil {
		return nil, err
	}
	if scope == credentials.ScopeNone {
		scope = credentials.ScopeSession
	}

	var res client.AuthResponse
	if err := m.client.Auth.Refresh(ctx, &res); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, ErrNoToken
	}

	if err := m.vault.SaveIn(ctx, scope, res.Token); err != nil {
		return nil, fmt.Errorf("storing refreshed token: %w", err)
	}
	m.logger.Debug("token refreshed", slog.String("scope", scope.String()))
	return &res, nil
}

// Profile fetches the signed in user's profile into out.
func (m *Manager) Profile(ctx context.Context, out any) error {
	return m.client.Auth.Profile(ctx, out)
}

// Status reports the state of the stored token without calling the API.
// Tokens that are not JWTs, or carry no exp claim, count as valid.
func (m *Manager) Status(ctx context.Context) (TokenStatus, credentials.Scope, error) {
	scope, token, err := m.vault.Lookup(ctx)
	if err != nil {
		return TokenMissing, credentials.ScopeNone, err
	}
	if token == "" {
		return TokenMissing, scope, nil
	}
	if credentials.Expired(token, m.now()) {
		return TokenExpired, scope, nil
	}
	return TokenValid, scope, nil
}

func logMessage(err error) string {
	var ce *client.ClientError
	if errors.As(err, &ce) {
		return ce.LogMessage
	}
	return err.Error()
}
