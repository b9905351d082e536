package credentials

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "user-1"}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if token, _ := store.Token(ctx); token != "" {
		t.Fatalf("new store returned token %q", token)
	}
	if err := store.SetToken(ctx, "t1"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}
	if token, _ := store.Token(ctx); token != "t1" {
		t.Errorf("Token() = %q, want t1", token)
	}
	if err := store.ClearToken(ctx); err != nil {
		t.Fatalf("ClearToken() error = %v", err)
	}
	if token, _ := store.Token(ctx); token != "" {
		t.Errorf("Token() after clear = %q", token)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	var key [32]byte
	copy(key[:], "0123456789abcdef0123456789abcdef")

	tests := []struct {
		name    string
		options []FileStoreOption
	}{
		{name: "plain"},
		{name: "sealed", options: []FileStoreOption{WithEncryptionKey(key)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "token.json")
			store := NewFileStore(path, tt.options...)

			if token, err := store.Token(ctx); err != nil || token != "" {
				t.Fatalf("missing file: Token() = %q, %v", token, err)
			}

			if err := store.SetToken(ctx, "persisted-token"); err != nil {
				t.Fatalf("SetToken() error = %v", err)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("token file not written: %v", err)
			}
			if info.Mode().Perm() != 0o600 {
				t.Errorf("token file mode = %v, want 0600", info.Mode().Perm())
			}

			data, _ := os.ReadFile(path)
			sealed := len(tt.options) > 0
			if sealed == strings.Contains(string(data), "persisted-token") {
				t.Errorf("sealed=%v but file contents are %s", sealed, data)
			}

			// a second store on the same file sees the token
			reader := NewFileStore(path, tt.options...)
			if token, err := reader.Token(ctx); err != nil || token != "persisted-token" {
				t.Errorf("Token() = %q, %v, want persisted-token", token, err)
			}

			if err := store.ClearToken(ctx); err != nil {
				t.Fatalf("ClearToken() error = %v", err)
			}
			if token, _ := reader.Token(ctx); token != "" {
				t.Errorf("Token() after clear = %q", token)
			}
			if err := store.ClearToken(ctx); err != nil {
				t.Errorf("clearing a missing file should succeed, got %v", err)
			}
		})
	}
}

func TestFileStoreSealedWithoutKey(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token.json")

	var key, otherKey [32]byte
	copy(key[:], "0123456789abcdef0123456789abcdef")
	copy(otherKey[:], "fedcba9876543210fedcba9876543210")

	if err := NewFileStore(path, WithEncryptionKey(key)).SetToken(ctx, "secret"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}

	if _, err := NewFileStore(path).Token(ctx); err == nil {
		t.Error("reading a sealed token without a key should fail")
	}
	if _, err := NewFileStore(path, WithEncryptionKey(otherKey)).Token(ctx); err == nil {
		t.Error("reading a sealed token with the wrong key should fail")
	}
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, "storefront", time.Hour)

	if store.Key() != "storefront:token" {
		t.Fatalf("Key() = %q", store.Key())
	}

	mock.ExpectGet("storefront:token").RedisNil()
	mock.ExpectSet("storefront:token", "session-token", time.Hour).SetVal("OK")
	mock.ExpectGet("storefront:token").SetVal("session-token")
	mock.ExpectDel("storefront:token").SetVal(1)
	mock.ExpectGet("storefront:token").SetErr(errors.New("connection refused"))

	if token, err := store.Token(ctx); err != nil || token != "" {
		t.Errorf("missing key: Token() = %q, %v", token, err)
	}
	if err := store.SetToken(ctx, "session-token"); err != nil {
		t.Errorf("SetToken() error = %v", err)
	}
	if token, err := store.Token(ctx); err != nil || token != "session-token" {
		t.Errorf("Token() = %q, %v", token, err)
	}
	if err := store.ClearToken(ctx); err != nil {
		t.Errorf("ClearToken() error = %v", err)
	}
	if _, err := store.Token(ctx); err == nil {
		t.Error("redis failure should be returned")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	failing := ProviderFunc(func(context.Context) (string, error) {
		return "", errors.New("store unavailable")
	})

	tests := []struct {
		name    string
		chain   Chain
		want    string
		wantErr bool
	}{
		{name: "empty chain", chain: Chain{}, want: ""},
		{name: "first non-empty wins", chain: Chain{Static("a"), Static("b")}, want: "a"},
		{name: "skips empty and nil", chain: Chain{None, nil, Static("b")}, want: "b"},
		{name: "error stops lookup", chain: Chain{None, failing, Static("b")}, wantErr: true},
		{name: "error after a hit is not reached", chain: Chain{Static("a"), failing}, want: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.chain.Token(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Token() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Token() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVaultLookupOrder(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		persistent string
		session    string
		want       string
		wantScope  Scope
	}{
		{name: "persistent wins", persistent: "p", session: "s", want: "p", wantScope: ScopePersistent},
		{name: "falls back to session", persistent: "", session: "s", want: "s", wantScope: ScopeSession},
		{name: "neither", want: "", wantScope: ScopeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			persistent, session := NewMemoryStore(), NewMemoryStore()
			if tt.persistent != "" {
				_ = persistent.SetToken(ctx, tt.persistent)
			}
			if tt.session != "" {
				_ = session.SetToken(ctx, tt.session)
			}
			vault := NewVault(persistent, session)

			got, err := vault.Token(ctx)
			if err != nil {
				t.Fatalf("Token() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Token() = %q, want %q", got, tt.want)
			}
			scope, _ := vault.ScopeOf(ctx)
			if scope != tt.wantScope {
				t.Errorf("ScopeOf() = %v, want %v", scope, tt.wantScope)
			}
		})
	}
}

func TestVaultSaveAndClear(t *testing.T) {
	ctx := context.Background()
	persistent, session := NewMemoryStore(), NewMemoryStore()
	vault := NewVault(persistent, session)

	if err := vault.Save(ctx, "remembered", true); err != nil {
		t.Fatalf("Save(remember) error = %v", err)
	}
	if token, _ := persistent.Token(ctx); token != "remembered" {
		t.Errorf("persistent token = %q", token)
	}

	if err := vault.Save(ctx, "short-lived", false); err != nil {
		t.Fatalf("Save(session) error = %v", err)
	}
	if token, _ := persistent.Token(ctx); token != "" {
		t.Errorf("saving a session token should clear the persistent one, got %q", token)
	}
	if token, _ := vault.Token(ctx); token != "short-lived" {
		t.Errorf("Token() = %q, want short-lived", token)
	}

	if err := vault.Save(ctx, "", true); err == nil {
		t.Error("saving an empty token should fail")
	}

	if err := vault.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if token, _ := vault.Token(ctx); token != "" {
		t.Errorf("Token() after Clear = %q", token)
	}

	if err := NewVault(nil, session).Save(ctx, "x", true); err == nil {
		t.Error("saving into a missing store should fail")
	}
}

func TestVaultPruneExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	expired := signedToken(t, now.Add(-time.Minute))
	valid := signedToken(t, now.Add(time.Hour))

	persistent, session := NewMemoryStore(), NewMemoryStore()
	_ = persistent.SetToken(ctx, expired)
	_ = session.SetToken(ctx, valid)

	vault := NewVault(persistent, session, WithPruneExpired())
	vault.now = func() time.Time { return now }

	got, err := vault.Token(ctx)
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if got != valid {
		t.Errorf("expired persistent token was not skipped")
	}
	if token, _ := persistent.Token(ctx); token != "" {
		t.Errorf("expired persistent token was not cleared")
	}

	// without pruning the expired token is still returned
	_ = persistent.SetToken(ctx, expired)
	if got, _ := NewVault(persistent, session).Token(ctx); got != expired {
		t.Errorf("vault without pruning should return the stored token")
	}
}

func TestExpiry(t *testing.T) {
	exp := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		token  string
		wantOK bool
	}{
		{name: "jwt with exp", token: signedToken(t, exp), wantOK: true},
		{name: "jwt without exp", token: signedToken(t, time.Time{}), wantOK: false},
		{name: "opaque token", token: "opaque-token", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Expiry(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("Expiry() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(exp) {
				t.Errorf("Expiry() = %v, want %v", got, exp)
			}
		})
	}

	if Expired("opaque-token", time.Now()) {
		t.Error("opaque tokens should never be treated as expired")
	}
}
