package usecase

import (
	"context"

	auditDomain "github.com/allisson/vaultd/internal/audit/domain"
)

type ipAddressKey struct{}
type correlationIDKey struct{}

// WithIPAddress attaches the caller's request IP to ctx for Record to pick
// up. Typically set once by the thin HTTP surface per inbound request.
func WithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipAddressKey{}, ip)
}

// IPAddressFromContext returns the IP attached by WithIPAddress, or
// domain.DefaultIPAddress ("system") when no request is in flight.
func IPAddressFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(ipAddressKey{}).(string); ok && ip != "" {
		return ip
	}
	return auditDomain.DefaultIPAddress
}

// WithCorrelationID attaches a request-scoped correlation id to ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the id attached by WithCorrelationID, or
// domain.DefaultCorrelationID ("no-correlation-id") when none was set.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok && id != "" {
		return id
	}
	return auditDomain.DefaultCorrelationID
}
