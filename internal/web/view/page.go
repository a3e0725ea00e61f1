package view

import "github.com/99minutos/user-portal/internal/core/domain"

// Template names.
const (
	PageLogin        = "login"
	PageRegister     = "register"
	PageProfile      = "profile"
	PageUsers        = "users"
	PageUnauthorized = "unauthorized"
	PageLoading      = "loading"
	PageError        = "error"
)

// Flash kinds.
const (
	FlashInfo  = "info"
	FlashError = "error"
)

// Page is the data every template receives.
type Page struct {
	Title   string
	Session domain.SessionState

	// Form echoes back submitted values; Errors holds per-field messages.
	Form   any
	Errors map[string]string

	Flash     string
	FlashKind string

	Data any
}

// WithFlash returns p carrying msg.
func (p Page) WithFlash(kind, msg string) Page {
	p.Flash = msg
	p.FlashKind = kind
	return p
}

// FieldError is used by templates: {{ .FieldError "email" }}.
func (p Page) FieldError(name string) string {
	return p.Errors[name]
}
