package contextutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestIDAndIdentity(t *testing.T) {
	ctx := WithRequestID(context.Background(), "rid-1")
	ctx = WithIdentity(ctx, Identity{UserID: "user-1", StaffID: "staff-1", CompanyID: "hotel-1"})

	assert.Equal(t, "rid-1", GetRequestID(ctx))
	id, ok := IdentityFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, "hotel-1", id.CompanyID)
	assert.Equal(t, "staff-1", id.StaffID)

	_, ok = IdentityFrom(context.Background())
	assert.False(t, ok)
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestGetLoggerFallbacks(t *testing.T) {
	scoped := zap.NewNop().Named("scoped")
	fallback := zap.NewNop().Named("fallback")

	assert.Same(t, scoped, GetLogger(WithLogger(context.Background(), scoped), fallback))
	assert.Same(t, fallback, GetLogger(context.Background(), fallback))
	assert.NotNil(t, GetLogger(context.Background(), nil))
}
