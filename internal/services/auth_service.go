package services

import (
	"context"
	"errors"
	"time"

	"adrboard/internal/common"
	"adrboard/internal/models"
	"adrboard/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenClaims is the JWT payload issued at login. Kind distinguishes the
// superadmin token from member tokens so the principal middleware never has
// to guess.
type TokenClaims struct {
	Kind     string `json:"kind"` // "member" or "superadmin"
	TenantID string `json:"tenant_id,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

const (
	TokenKindMember     = "member"
	TokenKindSuperadmin = "superadmin"
)

type AuthService interface {
	Signup(ctx context.Context, email, password, name string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	userRepo        repositories.UserRepository
	membershipRepo  repositories.MembershipRepository
	tenantRepo      repositories.TenantRepository
	provisioningSvc ProvisioningService
	jwtSecret       []byte
	tokenTTL        time.Duration
	superadminEmail string
	superadminHash  string
}

func NewAuthService(userRepo repositories.UserRepository, membershipRepo repositories.MembershipRepository,
	tenantRepo repositories.TenantRepository, provisioningSvc ProvisioningService,
	jwtSecret string, tokenTTL time.Duration, superadminEmail, superadminHash string) AuthService {
	return &authService{
		userRepo:        userRepo,
		membershipRepo:  membershipRepo,
		tenantRepo:      tenantRepo,
		provisioningSvc: provisioningSvc,
		jwtSecret:       []byte(jwtSecret),
		tokenTTL:        tokenTTL,
		superadminEmail: superadminEmail,
		superadminHash:  superadminHash,
	}
}

func (s *authService) Signup(ctx context.Context, email, password, name string) (*models.User, string, error) {
	if len(password) < 8 {
		return nil, "", common.Validation("password", "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, membership, err := s.provisioningSvc.Provision(ctx, email, string(hash), name)
	if err != nil {
		return nil, "", err
	}

	tenant, err := s.tenantRepo.GetByID(ctx, user.TenantID)
	if err != nil {
		return nil, "", err
	}

	token, err := s.memberToken(user, tenant, membership.GlobalRole)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	if s.superadminEmail != "" && email == s.superadminEmail {
		if bcrypt.CompareHashAndPassword([]byte(s.superadminHash), []byte(password)) != nil {
			return "", common.Forbidden()
		}
		return s.superadminToken()
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", common.Forbidden()
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", common.Forbidden()
	}

	membership, err := s.membershipRepo.GetByUserAndTenant(ctx, user.ID, user.TenantID)
	if err != nil {
		return "", err
	}
	tenant, err := s.tenantRepo.GetByID(ctx, user.TenantID)
	if err != nil {
		return "", err
	}
	return s.memberToken(user, tenant, membership.GlobalRole)
}

func (s *authService) memberToken(user *models.User, tenant *models.Tenant, role models.GlobalRole) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		Kind:     TokenKindMember,
		TenantID: tenant.ID.String(),
		Domain:   tenant.Domain,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *authService) superadminToken() (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		Kind: TokenKindSuperadmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "superadmin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
