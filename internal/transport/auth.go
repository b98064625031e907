package transport

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rpggio/ragboard/internal/repository"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type ownerKey struct{}

// OwnerResolver resolves the owner of a bearer token.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, token string) (string, error)
}

// OwnerFromContext returns the API key owner from context, if present.
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ownerKey{}).(string)
	return owner, ok
}

// WithOwner returns a context carrying owner.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver OwnerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			owner, err := resolver.ResolveOwner(r.Context(), token)
			if err != nil || owner == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid bearer token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// KeyResolver resolves bearer tokens against stored API key hashes.
type KeyResolver struct {
	keys repository.APIKeyRepository
}

// NewKeyResolver creates a new KeyResolver.
func NewKeyResolver(keys repository.APIKeyRepository) *KeyResolver {
	return &KeyResolver{keys: keys}
}

// ResolveOwner implements OwnerResolver.
func (r *KeyResolver) ResolveOwner(ctx context.Context, token string) (string, error) {
	owner, err := r.keys.ResolveOwner(ctx, HashKey(token))
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("resolving api key: %w", err)
	}
	return owner, nil
}

// HashKey returns the stored form of an API key.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
