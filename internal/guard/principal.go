package guard

import (
	"context"

	"adrboard/internal/models"

	"github.com/google/uuid"
)

// PrincipalKind tags the principal variants. The superadmin is its own
// variant rather than a member with a flag, so tenant-scoped code can never
// accept it by accident.
type PrincipalKind int

const (
	KindAnonymous PrincipalKind = iota
	KindSuperadmin
	KindMember
)

// Principal is the authenticated caller of a request. Member fields are only
// meaningful when Kind == KindMember.
type Principal struct {
	Kind     PrincipalKind
	UserID   uuid.UUID
	TenantID uuid.UUID
	Domain   string
	Role     models.GlobalRole
}

func Anonymous() Principal {
	return Principal{Kind: KindAnonymous}
}

func Superadmin() Principal {
	return Principal{Kind: KindSuperadmin}
}

func Member(userID, tenantID uuid.UUID, domain string, role models.GlobalRole) Principal {
	return Principal{Kind: KindMember, UserID: userID, TenantID: tenantID, Domain: domain, Role: role}
}

func (p Principal) IsAnonymous() bool  { return p.Kind == KindAnonymous }
func (p Principal) IsSuperadmin() bool { return p.Kind == KindSuperadmin }
func (p Principal) IsMember() bool     { return p.Kind == KindMember }

type principalCtxKey struct{}

// WithPrincipal stores the principal in a request context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// FromContext returns the principal stored by the authentication middleware,
// or the anonymous principal when none was stored.
func FromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalCtxKey{}).(Principal); ok {
		return p
	}
	return Anonymous()
}
