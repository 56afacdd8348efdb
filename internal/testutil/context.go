package testutil

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxTenantID, types.DefaultTenantID)
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}

// tenantKey scopes a store key to the tenant of ctx, mirroring the (tenant_id, id) keys in postgres.
func tenantKey(ctx context.Context, id string) string {
	return types.GetTenantID(ctx) + "/" + id
}
