// Package obscontext carries request-scoped correlation values used by logs and spans.
package obscontext

import (
	"context"
	"strconv"
	"strings"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	tenantIDKey
	actorKey
)

type actor struct {
	kind string
	id   string
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, strings.TrimSpace(requestID))
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// WithTenantID stores the tenant the request acts on.
func WithTenantID(ctx context.Context, tenantID int64) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// TenantIDFromContext returns the tenant id and whether one was set.
func TenantIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	v, ok := ctx.Value(tenantIDKey).(int64)
	return v, ok
}

// TenantIDString is TenantIDFromContext formatted for log fields, empty when unset.
func TenantIDString(ctx context.Context) string {
	id, ok := TenantIDFromContext(ctx)
	if !ok {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// WithActor records who issued the request, e.g. ("staff", "42") or ("customer", "").
func WithActor(ctx context.Context, actorType, actorID string) context.Context {
	return context.WithValue(ctx, actorKey, actor{
		kind: strings.TrimSpace(actorType),
		id:   strings.TrimSpace(actorID),
	})
}

func ActorFromContext(ctx context.Context) (string, string) {
	if ctx == nil {
		return "", ""
	}
	a, _ := ctx.Value(actorKey).(actor)
	return a.kind, a.id
}
