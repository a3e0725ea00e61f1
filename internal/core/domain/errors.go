package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidIdentity    = errors.New("invalid identity")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// ErrNoSessionContext is a composition error: session state was requested
	// from a context the portal never attached a SessionContext to.
	ErrNoSessionContext = errors.New("session context is not configured for this request")

	ErrRejected   = errors.New("request rejected by identity api")
	ErrConnection = errors.New("identity api unreachable")
)

// ConnectionErrorMessage is shown to users when the identity API could not be reached.
const ConnectionErrorMessage = "connection error"

// ErrorKind separates a server rejection from a transport failure.
type ErrorKind int

const (
	KindRejected ErrorKind = iota + 1
	KindConnection
)

func (k ErrorKind) String() string {
	switch k {
	case KindRejected:
		return "rejected"
	case KindConnection:
		return "connection"
	default:
		return "unknown"
	}
}

// AuthError is the failure variant of every identity API call.
// Message is safe to show to the user.
type AuthError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is lets errors.Is match on the kind sentinels.
func (e *AuthError) Is(target error) bool {
	switch target {
	case ErrRejected:
		return e.Kind == KindRejected
	case ErrConnection:
		return e.Kind == KindConnection
	}
	return false
}

// Rejected builds a rejection carrying the server-provided message.
func Rejected(status int, message string) *AuthError {
	if message == "" {
		message = "request rejected"
	}
	return &AuthError{Kind: KindRejected, Status: status, Message: message}
}

// ConnectionFailed builds a connection error wrapping the transport cause.
func ConnectionFailed(cause error) *AuthError {
	return &AuthError{Kind: KindConnection, Message: ConnectionErrorMessage, Err: cause}
}

// ValidationError holds field-scoped messages produced before any network call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Field returns the message for name, or "".
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}
