package auth

import "context"

type ctxKey string

const (
	ctxKeySub    ctxKey = "sub"
	ctxKeyStatus ctxKey = "status"
)

func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ctxKeySub, sub)
}

func SubjectFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeySub); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func WithStatus(ctx context.Context, status string) context.Context {
	return context.WithValue(ctx, ctxKeyStatus, status)
}

func StatusFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeyStatus); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
