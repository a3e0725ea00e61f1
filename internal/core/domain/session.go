package domain

// SessionState is the snapshot of a client's session that views and the
// route guard consume.
type SessionState struct {
	Identity  *Identity
	IsLoading bool
}

// IsAuthenticated reports whether an identity is present.
func (s SessionState) IsAuthenticated() bool {
	return s.Identity != nil
}
