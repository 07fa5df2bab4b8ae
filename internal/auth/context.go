package auth

import (
	"context"
	"strings"
)

type instituteContextKey struct{}
type tokenContextKey struct{}

// ContextWithInstitute attaches the authenticated institute to the context.
func ContextWithInstitute(ctx context.Context, inst Institute) context.Context {
	return context.WithValue(ctx, instituteContextKey{}, &inst)
}

// InstituteFromContext extracts the authenticated institute from the context.
func InstituteFromContext(ctx context.Context) (Institute, bool) {
	if ctx == nil {
		return Institute{}, false
	}
	v, ok := ctx.Value(instituteContextKey{}).(*Institute)
	if !ok || v == nil {
		return Institute{}, false
	}
	return *v, true
}

// InstituteIDFromContext returns only the authenticated institute identifier.
func InstituteIDFromContext(ctx context.Context) (string, bool) {
	inst, ok := InstituteFromContext(ctx)
	if !ok || strings.TrimSpace(inst.InstituteID) == "" {
		return "", false
	}
	return inst.InstituteID, true
}

// ContextWithToken stores the raw bearer token inside the context.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the bearer token if it was previously attached.
func TokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(tokenContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
