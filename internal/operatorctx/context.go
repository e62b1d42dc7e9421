// Package operatorctx carries the authenticated operator id through request
// contexts. The identity provider itself sits in front of this service; we
// only consume its verdict for audit attribution.
package operatorctx

import "context"

type contextKey struct{}

// WithOperator returns a context carrying the operator id.
func WithOperator(ctx context.Context, operatorID string) context.Context {
	if operatorID == "" {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, operatorID)
}

// OperatorFromContext returns the operator id, or "" when unauthenticated.
func OperatorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(contextKey{}).(string); ok {
		return v
	}
	return ""
}
