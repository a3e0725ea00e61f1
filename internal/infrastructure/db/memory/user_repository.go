package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/user-portal/internal/core/domain"
)

// SeedPassword is the password of the seeded accounts that can log in.
const SeedPassword = "password"

// UserRepository is an in-process account store, safe for concurrent use.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.Account
	emailID map[string]string
}

// NewUserRepository returns a repository holding a copy of accounts.
func NewUserRepository(accounts ...domain.Account) *UserRepository {
	r := &UserRepository{
		byID:    make(map[string]domain.Account, len(accounts)),
		emailID: make(map[string]string, len(accounts)),
	}
	for _, a := range accounts {
		r.byID[a.ID] = a
		r.emailID[strings.ToLower(a.Email)] = a.ID
	}
	return r
}

// DefaultAccounts returns the development data set: two accounts that log in
// with SeedPassword and three listing-only accounts without a credential.
func DefaultAccounts() ([]domain.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	at := func(month time.Month, day int) time.Time {
		return time.Date(2023, month, day, 0, 0, 0, 0, time.UTC)
	}
	account := func(id, name, email string, role domain.Role, status domain.Status, created time.Time, pw string) domain.Account {
		return domain.Account{
			Identity: domain.Identity{
				ID: id, Name: name, Email: email, Role: role, Status: status,
				CreatedAt: created, UpdatedAt: created,
			},
			PasswordHash: pw,
		}
	}

	return []domain.Account{
		account("1", "Admin User", "admin@example.com", domain.RoleAdmin, domain.StatusActive, at(time.January, 15), string(hash)),
		account("2", "Regular User", "user@example.com", domain.RoleUser, domain.StatusActive, at(time.February, 20), string(hash)),
		account("3", "John Doe", "john@example.com", domain.RoleUser, domain.StatusInactive, at(time.March, 10), ""),
		account("4", "Jane Smith", "jane@example.com", domain.RoleAdmin, domain.StatusActive, at(time.April, 5), ""),
		account("5", "Robert Johnson", "robert@example.com", domain.RoleUser, domain.StatusActive, at(time.May, 12), ""),
	}, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emailID[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	a := r.byID[id]
	return &a, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &a, nil
}

// List returns accounts oldest first.
func (r *UserRepository) List(_ context.Context) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Account, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *UserRepository) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(account.Email)
	if _, exists := r.emailID[email]; exists {
		return nil, domain.ErrUserExists
	}
	if _, exists := r.byID[account.ID]; exists {
		return nil, domain.ErrUserExists
	}
	r.byID[account.ID] = *account
	r.emailID[email] = account.ID

	created := *account
	return &created, nil
}

func (r *UserRepository) Update(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byID[account.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	email := strings.ToLower(account.Email)
	if id, taken := r.emailID[email]; taken && id != account.ID {
		return nil, domain.ErrUserExists
	}

	delete(r.emailID, strings.ToLower(prev.Email))
	r.emailID[email] = account.ID
	r.byID[account.ID] = *account

	updated := *account
	return &updated, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	delete(r.emailID, strings.ToLower(a.Email))
	return nil
}
