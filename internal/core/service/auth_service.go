package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/core/ports"
)

// AuthService implements registration and login for the development identity API.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: time.Now}
}

// Register creates a standard user. The returned bundle carries a token the
// portal deliberately ignores.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.CredentialBundle, error) {
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := newAccount(name, email, password, domain.RoleUser, s.now())
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(&created.Identity)
	if err != nil {
		return nil, err
	}
	return &domain.CredentialBundle{Identity: created.Identity, Token: token}, nil
}

// Login verifies the password and issues a signed token. Unknown emails,
// accounts without a credential and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.CredentialBundle, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if account.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if account.Status != domain.StatusActive {
		return nil, domain.ErrForbidden
	}

	token, err := s.generateToken(&account.Identity)
	if err != nil {
		return nil, err
	}
	return &domain.CredentialBundle{Identity: account.Identity, Token: token}, nil
}

func (s *AuthService) generateToken(identity *domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":   identity.ID,
		"email": identity.Email,
		"role":  string(identity.Role),
		"exp":   s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func newAccount(name, email, password string, role domain.Role, now time.Time) (*domain.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	return &domain.Account{
		Identity: domain.Identity{
			ID:        uuid.NewString(),
			Name:      name,
			Email:     email,
			Role:      role,
			Status:    domain.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: string(hash),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
