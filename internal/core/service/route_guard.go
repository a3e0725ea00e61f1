package service

import "github.com/99minutos/user-portal/internal/core/domain"

// Decision is the outcome of evaluating a protected route.
type Decision int

const (
	DecisionLoading Decision = iota
	DecisionRedirectLogin
	DecisionRedirectUnauthorized
	DecisionRender
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectUnauthorized:
		return "redirect_unauthorized"
	case DecisionRender:
		return "render"
	default:
		return "unknown"
	}
}

// Decide evaluates a protected route. Checks run in a fixed order: loading,
// then authentication, then role. An empty requiredRole admits any identity.
func Decide(state domain.SessionState, requiredRole domain.Role) Decision {
	if state.IsLoading {
		return DecisionLoading
	}
	if !state.IsAuthenticated() {
		return DecisionRedirectLogin
	}
	if requiredRole != "" && state.Identity.Role != requiredRole {
		return DecisionRedirectUnauthorized
	}
	return DecisionRender
}
