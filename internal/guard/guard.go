package guard

import (
	"context"
	"fmt"
	"log"

	"adrboard/internal/models"
)

// DomainStatusLookup resolves the approval status for an organization
// domain. Implementations may consult a cache; a lookup error means the
// ledger was unreachable, not that the domain is unapproved.
type DomainStatusLookup interface {
	Status(ctx context.Context, domain string) (models.DomainApprovalStatus, error)
}

// Request describes a tenant-scoped request to authorize.
type Request struct {
	Principal Principal
	// Domain of the tenant the request is addressed to.
	Domain string
	// RequireAdmin marks admin-gated surfaces. provisional_admin passes.
	RequireAdmin bool
}

// Decision is the terminal result of the pipeline. Denials carry a redirect
// target instead of a hard error so browser callers land on a useful page.
type Decision struct {
	Allow    bool
	Redirect string
	Reason   string
}

func allow() Decision {
	return Decision{Allow: true}
}

func deny(redirect, reason string) Decision {
	return Decision{Redirect: redirect, Reason: reason}
}

// Check inspects a request and returns nil to continue or a terminal
// decision to short-circuit.
type Check func(ctx context.Context, req Request) *Decision

// Redirect surfaces.
func LoginURL(domain string) string        { return fmt.Sprintf("/%s/login", domain) }
func TenantHomeURL(domain string) string   { return fmt.Sprintf("/%s", domain) }
func DomainStatusURL(domain string) string { return fmt.Sprintf("/%s/status", domain) }
func SuperadminDashboardURL() string       { return "/admin" }

// RequireAuthenticated rejects anonymous principals toward the tenant's
// login surface.
func RequireAuthenticated() Check {
	return func(ctx context.Context, req Request) *Decision {
		if req.Principal.IsAnonymous() {
			d := deny(LoginURL(req.Domain), "authentication required")
			return &d
		}
		return nil
	}
}

// IsolateSuperadmin denies the master account any access to tenant-scoped
// resources. Tenants are managed only through the administrative surface, so
// a compromised master credential cannot touch tenant data directly.
func IsolateSuperadmin() Check {
	return func(ctx context.Context, req Request) *Decision {
		if req.Principal.IsSuperadmin() {
			d := deny(SuperadminDashboardURL(), "master account cannot access tenant resources")
			return &d
		}
		return nil
	}
}

// RequireTenantMatch sends members of other tenants to their own tenant's
// home instead of serving cross-tenant data.
func RequireTenantMatch() Check {
	return func(ctx context.Context, req Request) *Decision {
		if req.Principal.Domain != req.Domain {
			d := deny(TenantHomeURL(req.Principal.Domain), "principal belongs to a different tenant")
			return &d
		}
		return nil
	}
}

// RequireDomainApproved consults the approval ledger. Pending and rejected
// domains are redirected to a status surface. Unknown (legacy, no record)
// continues. A failed lookup also continues: denying here would lock out
// every legacy tenant whenever the ledger is unreachable.
func RequireDomainApproved(lookup DomainStatusLookup) Check {
	return func(ctx context.Context, req Request) *Decision {
		status, err := lookup.Status(ctx, req.Domain)
		if err != nil {
			log.Printf("WARN: domain approval lookup failed for %s, continuing: %v", req.Domain, err)
			return nil
		}
		switch status {
		case models.DomainPending, models.DomainRejected:
			d := deny(DomainStatusURL(req.Domain), fmt.Sprintf("domain approval is %s", status))
			return &d
		default:
			return nil
		}
	}
}

// RequireRole enforces the admin gate on role-gated surfaces.
func RequireRole() Check {
	return func(ctx context.Context, req Request) *Decision {
		if !req.RequireAdmin {
			return nil
		}
		if !req.Principal.Role.HasAdminRights() {
			d := deny(TenantHomeURL(req.Principal.Domain), "admin role required")
			return &d
		}
		return nil
	}
}

// Guard runs the fixed ordered pipeline every tenant-scoped request must
// pass. The order is security-critical and must not be rearranged.
type Guard struct {
	checks []Check
}

func New(lookup DomainStatusLookup) *Guard {
	return &Guard{
		checks: []Check{
			RequireAuthenticated(),
			IsolateSuperadmin(),
			RequireTenantMatch(),
			RequireDomainApproved(lookup),
			RequireRole(),
		},
	}
}

// Authorize evaluates the checks in order; the first terminal decision wins.
func (g *Guard) Authorize(ctx context.Context, req Request) Decision {
	for _, check := range g.checks {
		if d := check(ctx, req); d != nil {
			return *d
		}
	}
	return allow()
}

// SettingsLocked reports whether restricted tenant settings (authentication
// method, self-registration and the like) are read-only for this principal.
// They stay locked for the provisional admin until the tenant matures.
func SettingsLocked(tenant *models.Tenant, p Principal) bool {
	return p.Role == models.RoleProvisionalAdmin && !tenant.IsMature()
}
