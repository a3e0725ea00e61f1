package service

import (
	"testing"

	"github.com/99minutos/user-portal/internal/core/domain"
)

func TestDecide(t *testing.T) {
	admin := adminIdentity()
	user := standardIdentity()

	cases := []struct {
		name     string
		state    domain.SessionState
		required domain.Role
		want     Decision
	}{
		{"loading beats everything", domain.SessionState{IsLoading: true}, domain.RoleAdmin, DecisionLoading},
		{"loading with identity", domain.SessionState{Identity: &user, IsLoading: true}, domain.RoleAdmin, DecisionLoading},
		{"anonymous any role", domain.SessionState{}, "", DecisionRedirectLogin},
		{"anonymous admin route", domain.SessionState{}, domain.RoleAdmin, DecisionRedirectLogin},
		{"user on admin route", domain.SessionState{Identity: &user}, domain.RoleAdmin, DecisionRedirectUnauthorized},
		{"user on open route", domain.SessionState{Identity: &user}, "", DecisionRender},
		{"admin on admin route", domain.SessionState{Identity: &admin}, domain.RoleAdmin, DecisionRender},
		{"admin on user route", domain.SessionState{Identity: &admin}, domain.RoleUser, DecisionRedirectUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.state, tc.required); got != tc.want {
				t.Fatalf("Decide = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestDecisionString(t *testing.T) {
	want := map[Decision]string{
		DecisionLoading:              "loading",
		DecisionRedirectLogin:        "redirect_login",
		DecisionRedirectUnauthorized: "redirect_unauthorized",
		DecisionRender:               "render",
		Decision(42):                 "unknown",
	}
	for d, s := range want {
		if d.String() != s {
			t.Fatalf("%d.String() = %q, want %q", d, d.String(), s)
		}
	}
}
