package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityRoles(t *testing.T) {
	identity := NewIdentity(5, " Owner ", "admin", "")

	assert.True(t, identity.HasRole(RoleOwner))
	assert.True(t, identity.IsAdmin())
	assert.False(t, identity.HasRole(RoleCustomer))
	assert.Equal(t, []string{"admin", "owner"}, identity.RoleList())
}

func TestIdentityContext(t *testing.T) {
	_, ok := GetIdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := SetIdentityContext(context.Background(), NewIdentity(0))
	_, ok = GetIdentityFromContext(ctx)
	assert.False(t, ok)

	ctx = SetIdentityContext(context.Background(), NewIdentity(9, RoleCustomer))
	identity, ok := GetIdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(9), identity.UserID)
}
