package auth

import "context"

type ctxKey string

const ctxKeyCaller ctxKey = "caller"

func WithCaller(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, ctxKeyCaller, address)
}

// CallerFromContext returns the wallet address set by JWTMiddleware, or "".
func CallerFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeyCaller).(string); ok {
		return s
	}
	return ""
}
