package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetUserID(ctx))
	assert.False(t, HasRole(ctx, "Stock User"))

	ctx = WithUser(ctx, &UserContext{UserID: "u-1", Roles: []string{"Stock User"}})
	assert.Equal(t, "u-1", GetUserID(ctx))
	assert.True(t, HasRole(ctx, "Stock User"))
	assert.False(t, HasRole(ctx, "Manufacturing Manager"))

	admin := WithUser(context.Background(), &UserContext{UserID: "root", IsAdmin: true})
	assert.True(t, HasRole(admin, "Manufacturing Manager"))
}

func TestTraceContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Nil(t, GetTrace(ctx))

	tc := NewTraceContext("", "")
	assert.NotEmpty(t, tc.TraceID)
	assert.NotEmpty(t, tc.RequestID)
	assert.Len(t, tc.SpanID, 16)

	ctx = WithTrace(ctx, tc)
	assert.Equal(t, tc.RequestID, GetRequestID(ctx))
	assert.Same(t, tc, GetTrace(ctx))
}

func TestNewTraceContext_KeepsCallerIDs(t *testing.T) {
	tc := NewTraceContext("trace-1", "req-1")
	assert.Equal(t, "trace-1", tc.TraceID)
	assert.Equal(t, "req-1", tc.RequestID)
}
