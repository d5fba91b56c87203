package utils

import (
	"context"
	"sort"
	"strings"
)

type contextKey string

const (
	IdentityKey  contextKey = "identity"
	TokenKey     contextKey = "token"
	RequestIDKey contextKey = "request_id"
)

const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
)

// Identity is the authenticated principal resolved once per request.
type Identity struct {
	UserID int64
	Roles  map[string]struct{}
}

func NewIdentity(userID int64, roles ...string) Identity {
	set := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		role = strings.ToLower(strings.TrimSpace(role))
		if role != "" {
			set[role] = struct{}{}
		}
	}
	return Identity{UserID: userID, Roles: set}
}

func (i Identity) HasRole(role string) bool {
	_, ok := i.Roles[role]
	return ok
}

func (i Identity) IsAdmin() bool {
	return i.HasRole(RoleAdmin)
}

// RoleList returns the roles in a stable order for logging.
func (i Identity) RoleList() []string {
	out := make([]string, 0, len(i.Roles))
	for role := range i.Roles {
		out = append(out, role)
	}
	sort.Strings(out)
	return out
}

func SetIdentityContext(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(Identity)
	if !ok || identity.UserID <= 0 {
		return Identity{}, false
	}
	return identity, true
}

func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}

func SetRequestIDContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(RequestIDKey).(string)
	return requestID
}
