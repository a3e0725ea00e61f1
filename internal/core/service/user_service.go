package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/core/ports"
)

// UserService implements the /users resource of the development identity API.
type UserService struct {
	repo ports.UserRepository
	now  func() time.Time
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo, now: time.Now}
}

func (s *UserService) List(ctx context.Context) ([]domain.Identity, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.Identity, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Identity)
	}
	return out, nil
}

func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.Identity, error) {
	email := normalizeEmail(in.Email)
	if in.Name == "" || email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidIdentity, role)
	}

	account, err := newAccount(in.Name, email, in.Password, role, s.now())
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}
	return &created.Identity, nil
}

// Update applies the non-nil fields of in. An email already used by another
// account is rejected with ErrUserExists.
func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.Identity, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != "" {
		account.Name = *in.Name
	}
	if in.Email != nil && *in.Email != "" {
		email := normalizeEmail(*in.Email)
		if email != account.Email {
			if other, err := s.repo.FindByEmail(ctx, email); err == nil && other.ID != account.ID {
				return nil, domain.ErrUserExists
			}
			account.Email = email
		}
	}
	if in.Role != nil && *in.Role != "" {
		if !in.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidIdentity, *in.Role)
		}
		account.Role = *in.Role
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = string(hash)
	}
	account.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, account)
	if err != nil {
		return nil, err
	}
	return &updated.Identity, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
