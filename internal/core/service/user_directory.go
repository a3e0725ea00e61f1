package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/core/ports"
)

// UserDirectory is the user-administration collaborator: it calls /users on
// behalf of the client whose token sits in the session store.
type UserDirectory struct {
	api       ports.IdentityAPI
	store     ports.SessionStore
	validator *FormValidator
	log       zerolog.Logger
}

func NewUserDirectory(api ports.IdentityAPI, store ports.SessionStore, validator *FormValidator, log zerolog.Logger) *UserDirectory {
	if validator == nil {
		validator = NewFormValidator()
	}
	return &UserDirectory{
		api:       api,
		store:     store,
		validator: validator,
		log:       log.With().Str("component", "user_directory").Logger(),
	}
}

func (d *UserDirectory) token(ctx context.Context) (string, error) {
	token, ok := d.store.ReadToken(ctx)
	if !ok {
		return "", domain.ErrNotAuthenticated
	}
	return token, nil
}

func (d *UserDirectory) List(ctx context.Context) ([]domain.Identity, error) {
	token, err := d.token(ctx)
	if err != nil {
		return nil, err
	}
	return d.api.ListUsers(ctx, token)
}

func (d *UserDirectory) Create(ctx context.Context, form CreateUserForm) (*domain.Identity, error) {
	if err := d.validator.Validate(form); err != nil {
		return nil, err
	}
	token, err := d.token(ctx)
	if err != nil {
		return nil, err
	}

	role := form.Role
	if role == "" {
		role = domain.RoleUser
	}
	return d.api.CreateUser(ctx, token, ports.CreateUserInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Role:     role,
	})
}

// Update applies a partial change. When id is the stored identity, the stored
// copy is rewritten so the next hydration sees the new profile.
func (d *UserDirectory) Update(ctx context.Context, id string, form ProfileForm) (*domain.Identity, error) {
	if err := d.validator.Validate(form); err != nil {
		return nil, err
	}
	token, err := d.token(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := d.api.UpdateUser(ctx, token, id, toUpdateInput(form))
	if err != nil {
		return nil, err
	}

	if current := d.store.Read(ctx); current != nil && current.ID == id {
		if err := d.store.Save(ctx, *updated, token); err != nil {
			d.log.Warn().Err(err).Str("user_id", id).Msg("failed to rewrite stored identity")
		}
	}
	return updated, nil
}

// UpdateProfile is the self-service variant of Update: the role is never
// sent, whatever the form carries.
func (d *UserDirectory) UpdateProfile(ctx context.Context, self domain.Identity, form ProfileForm) (*domain.Identity, error) {
	form.Role = ""
	return d.Update(ctx, self.ID, form)
}

func (d *UserDirectory) Delete(ctx context.Context, id string) error {
	token, err := d.token(ctx)
	if err != nil {
		return err
	}
	if err := d.api.DeleteUser(ctx, token, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}

func toUpdateInput(form ProfileForm) ports.UpdateUserInput {
	var in ports.UpdateUserInput
	if form.Name != "" {
		in.Name = &form.Name
	}
	if form.Email != "" {
		in.Email = &form.Email
	}
	if form.Password != "" {
		in.Password = &form.Password
	}
	if form.Role != "" {
		in.Role = &form.Role
	}
	return in
}

// Sort orders for the user listing.
const (
	SortByName      = "name"
	SortByCreatedAt = "createdAt"
)

// UserQuery narrows the admin listing. Role "" or "all" keeps every role.
type UserQuery struct {
	Search string
	Role   string
	Sort   string
}

// Filter applies q to users without modifying the input slice.
// Names sort ascending; createdAt sorts newest first.
func Filter(users []domain.Identity, q UserQuery) []domain.Identity {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]domain.Identity, 0, len(users))
	for _, u := range users {
		if term != "" &&
			!strings.Contains(strings.ToLower(u.Name), term) &&
			!strings.Contains(strings.ToLower(u.Email), term) {
			continue
		}
		if q.Role != "" && q.Role != "all" && string(u.Role) != q.Role {
			continue
		}
		out = append(out, u)
	}

	switch q.Sort {
	case SortByCreatedAt:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	}
	return out
}
