package mockapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/storefront-dev/storefront/internal/apperrors"
	"github.com/storefront-dev/storefront/internal/logger"
)

const tokenIssuer = "storefront-mock"

// AccessTokenClaims are carried in the tokens the backend issues.
type AccessTokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type authContextKey struct{}

func contextWithClaims(ctx context.Context, claims *AccessTokenClaims) context.Context {
	return context.WithValue(ctx, authContextKey{}, claims)
}

func contextClaims(ctx context.Context) (*AccessTokenClaims, bool) {
	claims, ok := ctx.Value(authContextKey{}).(*AccessTokenClaims)
	return claims, ok
}

// tokens issues and checks HS256 access tokens.
type tokens struct {
	secret []byte
	ttl    time.Duration
	store  *store
}

func (t *tokens) issue(u User) (string, error) {
	now := t.store.now()
	claims := AccessTokenClaims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return signed, nil
}

func (t *tokens) parse(accessToken string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.store.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header http.Header) (string, error) {
	auth := header.Get("Authorization")
	if auth == "" {
		return "", errors.New("authorization header is missing")
	}
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("authorization header must be of the form Bearer <token>")
	}
	return strings.TrimSpace(token), nil
}

// RequireValidAccessToken rejects requests without a valid, unrevoked access token
// and adds the token claims to the request context.
func (t *tokens) RequireValidAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, err := bearerToken(r.Header)
		if err != nil {
			respondWithError(w, r, http.StatusUnauthorized, apperrors.ErrCodeAuthorizationFailure, err.Error())
			return
		}

		claims, err := t.parse(accessToken)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				respondWithError(w, r, http.StatusUnauthorized, apperrors.ErrCodeAccessTokenExpired, "Session expired, please log in again")
				return
			}
			respondWithError(w, r, http.StatusUnauthorized, apperrors.ErrCodeTokenInvalid, "Invalid token")
			return
		}
		if t.store.isRevoked(claims.ID) {
			respondWithError(w, r, http.StatusUnauthorized, apperrors.ErrCodeTokenInvalid, "Invalid token")
			return
		}

		ctx := logger.ContextWithLogAttrs(r.Context(), slog.String("user_id", claims.Subject))
		next.ServeHTTP(w, r.WithContext(contextWithClaims(ctx, claims)))
	})
}

// RequireRole only lets through requests whose token carries one of roles.
// It must run after RequireValidAccessToken.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := contextClaims(r.Context())
			if !ok {
				respondWithError(w, r, http.StatusInternalServerError, apperrors.ErrCodeInternalError, "missing token claims")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondWithError(w, r, http.StatusForbidden, apperrors.ErrCodeForbidden, "You do not have permission to perform this action")
		})
	}
}
