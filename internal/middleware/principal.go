package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"adrboard/internal/guard"
	"adrboard/internal/models"
	"adrboard/internal/services"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PrincipalMiddleware resolves the caller into a guard.Principal and stores
// it in the request context. Requests without a token proceed as anonymous;
// the guard decides what anonymous callers may do.
type PrincipalMiddleware struct {
	jwtSecret []byte
	jwks      *keyfunc.JWKS
}

// NewPrincipalMiddleware builds the middleware. jwksURL is optional: when
// set, tokens signed by the external identity provider are accepted
// alongside locally issued HS256 tokens.
func NewPrincipalMiddleware(jwtSecret, jwksURL string) (*PrincipalMiddleware, error) {
	m := &PrincipalMiddleware{jwtSecret: []byte(jwtSecret)}
	if jwksURL != "" {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			RefreshErrorHandler: func(err error) {
				log.Printf("WARN: JWKS refresh failed: %v", err)
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
		}
		m.jwks = jwks
	}
	return m, nil
}

func (m *PrincipalMiddleware) keyfunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
		return m.jwtSecret, nil
	}
	if m.jwks != nil {
		return m.jwks.Keyfunc(token)
	}
	return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
}

// Resolve is the echo middleware.
func (m *PrincipalMiddleware) Resolve() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(m.withPrincipal(c, guard.Anonymous()))
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			claims := &services.TokenClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, m.keyfunc)
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			principal, err := principalFromClaims(claims)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			return next(m.withPrincipal(c, principal))
		}
	}
}

func (m *PrincipalMiddleware) withPrincipal(c echo.Context, p guard.Principal) echo.Context {
	ctx := guard.WithPrincipal(c.Request().Context(), p)
	c.SetRequest(c.Request().WithContext(ctx))
	return c
}

func principalFromClaims(claims *services.TokenClaims) (guard.Principal, error) {
	if claims.Kind == services.TokenKindSuperadmin {
		return guard.Superadmin(), nil
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return guard.Principal{}, fmt.Errorf("invalid subject in token")
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return guard.Principal{}, fmt.Errorf("invalid tenant_id in token")
	}
	role := models.GlobalRole(claims.Role)
	if !role.Valid() {
		return guard.Principal{}, fmt.Errorf("invalid role in token")
	}
	return guard.Member(userID, tenantID, claims.Domain, role), nil
}
