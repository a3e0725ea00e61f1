package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/user-portal/internal/core/domain"
)

func TestFormValidator(t *testing.T) {
	v := NewFormValidator()

	cases := []struct {
		name   string
		form   any
		fields map[string]string
	}{
		{"login ok", LoginForm{Email: "admin@example.com", Password: "x"}, nil},
		{"login loose email ok", LoginForm{Email: "a@b.c", Password: "x"}, nil},
		{"login empty", LoginForm{}, map[string]string{
			"email":    "email is required",
			"password": "password is required",
		}},
		{"register short", RegisterForm{Name: "A", Email: "a@ b.c", Password: "12345"}, map[string]string{
			"name":     "name must be at least 2 characters",
			"email":    "email is invalid",
			"password": "password must be at least 6 characters",
		}},
		{"profile empty is unchanged", ProfileForm{}, nil},
		{"profile bad role", ProfileForm{Role: "root"}, map[string]string{
			"role": "role must be one of: admin user",
		}},
		{"create default role", CreateUserForm{Name: "Staff", Email: "s@example.com", Password: "secret1"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.form)
			if tc.fields == nil {
				require.NoError(t, err)
				return
			}
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.fields, ve.Fields)
		})
	}
}
