package credentials

import "context"

// TokenKey is the key the token is stored under in every backend.
const TokenKey = "token"

// Provider returns the current bearer token, or "" when there is none.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (string, error)

func (f ProviderFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Store is a Provider that can also be written and cleared.
type Store interface {
	Provider
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// Static always returns the same token.
func Static(token string) Provider {
	return ProviderFunc(func(context.Context) (string, error) {
		return token, nil
	})
}

// None never returns a token; requests go out unauthenticated.
var None Provider = Static("")

// Chain returns the first non-empty token found, trying providers in order.
// An error from any provider stops the lookup.
type Chain []Provider

func (c Chain) Token(ctx context.Context) (string, error) {
	for _, p := range c {
		if p == nil {
			continue
		}
		token, err := p.Token(ctx)
		if err != nil {
			return "", err
		}
		if token != "" {
			return token, nil
		}
	}
	return "", nil
}
