package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const ownerKey contextKey = iota

const defaultOwner = "local"

// getOwner extracts the API key owner from context.
func getOwner(ctx context.Context) string {
	v, _ := ctx.Value(ownerKey).(string)
	return v
}

// OwnerResolver resolves the owner of a bearer token.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, token string) (string, error)
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver OwnerResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Protocol handshake is unauthenticated
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			auth := strings.TrimSpace(extra.Header.Get("Authorization"))
			if len(auth) < 7 || !strings.EqualFold(auth[:7], "Bearer ") {
				return nil, fmt.Errorf("unauthorized: missing bearer token")
			}
			token := strings.TrimSpace(auth[7:])
			if token == "" {
				return nil, fmt.Errorf("unauthorized: missing bearer token")
			}

			owner, err := resolver.ResolveOwner(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}
			if owner == "" {
				return nil, fmt.Errorf("unauthorized: invalid bearer token")
			}

			ctx = context.WithValue(ctx, ownerKey, owner)
			return next(ctx, method, req)
		}
	}
}

// noAuthMiddleware injects a default owner when auth is disabled.
func noAuthMiddleware(owner string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx = context.WithValue(ctx, ownerKey, owner)
			return next(ctx, method, req)
		}
	}
}
