package sessiongate

import "context"

type tenantIDContextKey struct{}
type clientIDContextKey struct{}

// WithTenantID attaches a tenant identifier to ctx for multi-tenant
// brokerage isolation. Without it, the default tenant "0" is used.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDContextKey{}, tenantID)
}

// WithClientID attaches the per-installation client identifier used to key
// the persisted session store. Without it, the default client "default" is
// used.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDContextKey{}, clientID)
}

func tenantIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return "0"
	}

	tenantID, _ := ctx.Value(tenantIDContextKey{}).(string)
	if tenantID == "" {
		return "0"
	}

	return tenantID
}

func clientIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return "default"
	}

	clientID, _ := ctx.Value(clientIDContextKey{}).(string)
	if clientID == "" {
		return "default"
	}

	return clientID
}
