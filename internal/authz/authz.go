// Package authz carries the authenticated principal through a request and
// checks what it may do. Services call the checks before or after their work.
package authz

import (
	"context"
	"fmt"
	"slices"

	"shop-admin/internal/domain"

	"github.com/google/uuid"
)

// Principal is the authenticated caller
type Principal struct {
	UserID   uuid.UUID
	Username string
	Roles    []string
}

// HasRole reports whether the principal holds the named role
func (p *Principal) HasRole(role string) bool {
	return p != nil && slices.Contains(p.Roles, role)
}

func (p *Principal) IsAdmin() bool {
	return p.HasRole(domain.RoleAdmin)
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal carried by ctx, if any
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

// RequireAuthenticated returns the principal or domain.ErrUnauthenticated
func RequireAuthenticated(ctx context.Context) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

// RequireAnyRole passes when the principal holds at least one of roles
func RequireAnyRole(ctx context.Context, roles ...string) (*Principal, error) {
	p, err := RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if slices.ContainsFunc(roles, p.HasRole) {
		return p, nil
	}
	return nil, fmt.Errorf("%w: requires one of roles %v", domain.ErrForbidden, roles)
}

func RequireAdmin(ctx context.Context) (*Principal, error) {
	return RequireAnyRole(ctx, domain.RoleAdmin)
}

// RequireSelfOrAdmin passes for an admin or for the principal whose username is username
func RequireSelfOrAdmin(ctx context.Context, username string) (*Principal, error) {
	p, err := RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if p.IsAdmin() || p.Username == username {
		return p, nil
	}
	return nil, fmt.Errorf("%w: not the owner of this account", domain.ErrForbidden)
}
