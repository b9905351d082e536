package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Scope identifies where a token is kept.
type Scope int

const (
	ScopeNone Scope = iota
	ScopePersistent
	ScopeSession
)

var scopeNames = []string{"none", "persistent", "session"}

func (s Scope) String() string {
	if s < 0 || int(s) >= len(scopeNames) {
		return fmt.Sprintf("Scope(%d)", int(s))
	}
	return scopeNames[s]
}

// Vault combines a persistent ("remember me") store with a session scoped one.
// Lookups try the persistent store first.
type Vault struct {
	persistent   Store
	session      Store
	pruneExpired bool
	now          func() time.Time
}

type VaultOption func(*Vault)

// WithPruneExpired makes lookups clear and skip JWTs whose exp claim has passed.
func WithPruneExpired() VaultOption {
	return func(v *Vault) {
		v.pruneExpired = true
	}
}

// NewVault creates a Vault. Either store may be nil.
func NewVault(persistent, session Store, options ...VaultOption) *Vault {
	v := &Vault{
		persistent: persistent,
		session:    session,
		now:        time.Now,
	}
	for _, opt := range options {
		opt(v)
	}
	return v
}

func (v *Vault) stores() []struct {
	scope Scope
	store Store
} {
	return []struct {
		scope Scope
		store Store
	}{
		{ScopePersistent, v.persistent},
		{ScopeSession, v.session},
	}
}

// Token implements Provider.
func (v *Vault) Token(ctx context.Context) (string, error) {
	_, token, err := v.lookup(ctx)
	return token, err
}

// ScopeOf reports which scope currently holds the token.
func (v *Vault) ScopeOf(ctx context.Context) (Scope, error) {
	scope, _, err := v.lookup(ctx)
	return scope, err
}

// Lookup returns the current token together with the scope holding it.
func (v *Vault) Lookup(ctx context.Context) (Scope, string, error) {
	return v.lookup(ctx)
}

func (v *Vault) lookup(ctx context.Context) (Scope, string, error) {
	for _, s := range v.stores() {
		if s.store == nil {
			continue
		}
		token, err := s.store.Token(ctx)
		if err != nil {
			return ScopeNone, "", fmt.Errorf("reading %s token: %w", s.scope, err)
		}
		if token == "" {
			continue
		}
		if v.pruneExpired && Expired(token, v.now()) {
			if err := s.store.ClearToken(ctx); err != nil {
				return ScopeNone, "", fmt.Errorf("clearing expired %s token: %w", s.scope, err)
			}
			continue
		}
		return s.scope, token, nil
	}
	return ScopeNone, "", nil
}

// Save stores token in the persistent store when remember is set, otherwise in
// the session store. The other scope is cleared so lookups cannot return a stale token.
func (v *Vault) Save(ctx context.Context, token string, remember bool) error {
	scope := ScopeSession
	if remember {
		scope = ScopePersistent
	}
	return v.SaveIn(ctx, scope, token)
}

// SaveIn stores token in the given scope and clears the other one.
func (v *Vault) SaveIn(ctx context.Context, scope Scope, token string) error {
	if token == "" {
		return errors.New("refusing to store an empty token")
	}
	for _, s := range v.stores() {
		if s.store == nil {
			if s.scope == scope {
				return fmt.Errorf("no %s token store configured", scope)
			}
			continue
		}
		if s.scope == scope {
			if err := s.store.SetToken(ctx, token); err != nil {
				return fmt.Errorf("saving %s token: %w", scope, err)
			}
			continue
		}
		if err := s.store.ClearToken(ctx); err != nil {
			return fmt.Errorf("clearing %s token: %w", s.scope, err)
		}
	}
	return nil
}

// Clear removes the token from both scopes.
func (v *Vault) Clear(ctx context.Context) error {
	var errs []error
	for _, s := range v.stores() {
		if s.store == nil {
			continue
		}
		if err := s.store.ClearToken(ctx); err != nil {
			errs = append(errs, fmt.Errorf("clearing %s token: %w", s.scope, err))
		}
	}
	return errors.Join(errs...)
}
