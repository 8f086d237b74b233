package middleware

import (
	"net/http"

	"adrboard/internal/common"
	"adrboard/internal/guard"
	"adrboard/internal/services"

	"github.com/labstack/echo/v4"
)

// Context key handlers use to read the tenant resolved by the guard.
const TenantContextKey = "guard_tenant"

// GuardMiddleware runs the ordered authorization pipeline on tenant-scoped
// routes. Routes are expected to carry a :domain parameter.
type GuardMiddleware struct {
	guard     *guard.Guard
	tenantSvc services.TenantService
}

func NewGuardMiddleware(g *guard.Guard, tenantSvc services.TenantService) *GuardMiddleware {
	return &GuardMiddleware{guard: g, tenantSvc: tenantSvc}
}

// RequireTenant guards a member-level tenant surface.
func (m *GuardMiddleware) RequireTenant() echo.MiddlewareFunc {
	return m.require(false)
}

// RequireTenantAdmin guards an admin-gated tenant surface.
func (m *GuardMiddleware) RequireTenantAdmin() echo.MiddlewareFunc {
	return m.require(true)
}

func (m *GuardMiddleware) require(admin bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			domain := common.NormalizeDomain(c.Param("domain"))

			decision := m.guard.Authorize(ctx, guard.Request{
				Principal:    guard.FromContext(ctx),
				Domain:       domain,
				RequireAdmin: admin,
			})
			if !decision.Allow {
				return c.Redirect(http.StatusFound, decision.Redirect)
			}

			// A tenant mid-deletion must fail closed, not partially serve.
			tenant, err := m.tenantSvc.GetByDomain(ctx, domain)
			if err != nil {
				return common.Respond(c, err)
			}
			c.Set(TenantContextKey, tenant)

			return next(c)
		}
	}
}

// RequireSuperadmin guards the administrative surface. Tenant members are
// rejected uniformly.
func RequireSuperadmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := guard.FromContext(c.Request().Context())
			if !p.IsSuperadmin() {
				return common.Respond(c, common.Forbidden())
			}
			return next(c)
		}
	}
}
