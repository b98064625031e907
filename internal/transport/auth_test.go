package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/ragboard/internal/repository"
	"github.com/rpggio/ragboard/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

type testResolver struct {
	tokenToOwner map[string]string
	err          error
}

func (r *testResolver) ResolveOwner(_ context.Context, token string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	owner, ok := r.tokenToOwner[token]
	if !ok {
		return "", ErrUnauthorized
	}
	return owner, nil
}

func TestAuthMiddleware(t *testing.T) {
	resolver := &testResolver{tokenToOwner: map[string]string{"token": "ops"}}

	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, ok := OwnerFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "ops", owner)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Invalid(t *testing.T) {
	resolver := &testResolver{err: errors.New("invalid")}

	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_Missing(t *testing.T) {
	handler := AuthMiddleware(&testResolver{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestBearerToken(t *testing.T) {
	require.Equal(t, "abc", BearerToken("Bearer abc"))
	require.Equal(t, "abc", BearerToken("bearer  abc "))
	require.Empty(t, BearerToken("Basic abc"))
	require.Empty(t, BearerToken(""))
}

func TestKeyResolver(t *testing.T) {
	ctx := context.Background()
	keys := &mocks.APIKeyRepository{}
	keys.On("ResolveOwner", ctx, HashKey("good")).Return("ops", nil)
	keys.On("ResolveOwner", ctx, HashKey("bad")).Return("", repository.ErrNotFound)

	resolver := NewKeyResolver(keys)

	owner, err := resolver.ResolveOwner(ctx, "good")
	require.NoError(t, err)
	require.Equal(t, "ops", owner)

	_, err = resolver.ResolveOwner(ctx, "bad")
	require.ErrorIs(t, err, ErrUnauthorized)
	keys.AssertExpectations(t)
}

func TestHashKey(t *testing.T) {
	require.Len(t, HashKey("k"), 64)
	require.Equal(t, HashKey("k"), HashKey("k"))
	require.NotEqual(t, HashKey("k"), HashKey("j"))
}
