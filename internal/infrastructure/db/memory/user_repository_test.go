package memory

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/user-portal/internal/core/domain"
)

func seeded(t *testing.T) *UserRepository {
	t.Helper()
	accounts, err := DefaultAccounts()
	if err != nil {
		t.Fatalf("DefaultAccounts: %v", err)
	}
	return NewUserRepository(accounts...)
}

func TestDefaultAccounts(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 5 || list[0].ID != "1" || list[4].ID != "5" {
		t.Fatalf("unexpected order: %+v", list)
	}

	for _, email := range []string{"admin@example.com", "user@example.com"} {
		a, err := repo.FindByEmail(ctx, email)
		if err != nil {
			t.Fatalf("%s: %v", email, err)
		}
		if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(SeedPassword)) != nil {
			t.Fatalf("%s: seed password does not match", email)
		}
	}

	john, _ := repo.FindByID(ctx, "3")
	if john.Status != domain.StatusInactive || john.PasswordHash != "" {
		t.Fatalf("unexpected john: %+v", john)
	}
}

func TestUserRepository_EmailIsCaseInsensitive(t *testing.T) {
	repo := seeded(t)
	if _, err := repo.FindByEmail(context.Background(), "ADMIN@example.com"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	repo := seeded(t)
	dup := domain.Account{Identity: domain.Identity{ID: "new", Email: "Admin@Example.com"}}
	if _, err := repo.Create(context.Background(), &dup); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserRepository_UpdateMovesEmailIndex(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	a, _ := repo.FindByID(ctx, "5")
	a.Email = "bob@example.com"
	if _, err := repo.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := repo.FindByEmail(ctx, "robert@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("old email still indexed: %v", err)
	}
	if got, err := repo.FindByEmail(ctx, "bob@example.com"); err != nil || got.ID != "5" {
		t.Fatalf("new email not indexed: %v %+v", err, got)
	}

	a.Email = "admin@example.com"
	if _, err := repo.Update(ctx, a); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	a, _ := repo.FindByID(ctx, "1")
	a.Name = "mutated"

	again, _ := repo.FindByID(ctx, "1")
	if again.Name != "Admin User" {
		t.Fatalf("repository state leaked: %s", again.Name)
	}
}

func TestUserRepository_Delete(t *testing.T) {
	repo := seeded(t)
	ctx := context.Background()

	if err := repo.Delete(ctx, "4"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "4"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.FindByEmail(ctx, "jane@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("email index not cleaned")
	}
}
