package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			attrs := []any{
				"direction", direction,
				"method", method,
				"session_id", safeSessionID(req),
				"owner", getOwner(ctx),
			}
			logger.Debug("mcp request", append(attrs, "params", formatPayload(safeParams(req)))...)

			start := time.Now()
			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}

			attrs = append(attrs, "duration", time.Since(start), "result", formatPayload(result))
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			logger.Debug("mcp response", attrs...)
			return result, err
		}
	}
}

// safeSessionID tolerates requests whose session is a typed nil.
func safeSessionID(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	if session := req.GetSession(); session != nil {
		return session.ID()
	}
	return ""
}

func safeParams(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if !bytes.Contains(data, []byte(`"token"`)) {
		return string(data)
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Sprintf("%T", payload)
	}
	redacted, err := json.Marshal(redactSecrets(decoded))
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	return string(redacted)
}

// redactSecrets masks every "token" member at any depth.
func redactSecrets(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			if k == "token" {
				val[k] = "[redacted]"
				continue
			}
			val[k] = redactSecrets(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = redactSecrets(item)
		}
		return val
	default:
		return v
	}
}
