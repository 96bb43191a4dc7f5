package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	obscontext "github.com/dev-arif67/restro-saas-sub000/internal/observability/context"
	"github.com/gin-gonic/gin"
)

const (
	headerTenantID = "X-Tenant-ID"
	headerActorID  = "X-Actor-ID"

	contextTenantKey = "tenant_id"
	contextActorKey  = "actor_id"
)

// TenantContext resolves the tenant every /api request is scoped to. A staff
// actor is optional; requests without one are treated as customer orders.
func TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(headerTenantID))
		if raw == "" {
			AbortWithError(c, newValidationError("tenant_id", "missing_tenant", "X-Tenant-ID header is required"))
			return
		}
		tenantID, err := snowflake.ParseString(raw)
		if err != nil || tenantID <= 0 {
			AbortWithError(c, newValidationError("tenant_id", "invalid_tenant", "invalid tenant id"))
			return
		}

		ctx := obscontext.WithTenantID(c.Request.Context(), tenantID.Int64())
		c.Set(contextTenantKey, tenantID)

		if rawActor := strings.TrimSpace(c.GetHeader(headerActorID)); rawActor != "" {
			actorID, err := snowflake.ParseString(rawActor)
			if err != nil || actorID <= 0 {
				AbortWithError(c, newValidationError("actor_id", "invalid_actor", "invalid actor id"))
				return
			}
			ctx = obscontext.WithActor(ctx, "staff", actorID.String())
			c.Set(contextActorKey, actorID)
		} else {
			ctx = obscontext.WithActor(ctx, "customer", "")
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func tenantFromContext(c *gin.Context) snowflake.ID {
	v, ok := c.Get(contextTenantKey)
	if !ok {
		return 0
	}
	id, _ := v.(snowflake.ID)
	return id
}

func actorFromContext(c *gin.Context) *snowflake.ID {
	v, ok := c.Get(contextActorKey)
	if !ok {
		return nil
	}
	id, ok := v.(snowflake.ID)
	if !ok {
		return nil
	}
	return &id
}
