// Package auth carries the authenticated principal through the request
// context.
package auth

import (
	"context"

	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Principal identifies the authenticated caller.
type Principal struct {
	Subject  string
	TenantID uuid.UUID
	Role     string
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
