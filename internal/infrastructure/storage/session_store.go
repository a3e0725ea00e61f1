package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/core/ports"
)

// Keys of the two independent entries that make up a stored session.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// SessionStore implements ports.SessionStore over one client's LocalStorage.
type SessionStore struct {
	ls  ports.LocalStorage
	log zerolog.Logger
}

func NewSessionStore(ls ports.LocalStorage, log zerolog.Logger) *SessionStore {
	return &SessionStore{ls: ls, log: log.With().Str("component", "session_store").Logger()}
}

// Save writes the identity as JSON and the token verbatim. An invalid
// identity is refused before anything is written; a failed identity write
// removes the token again.
func (s *SessionStore) Save(ctx context.Context, identity domain.Identity, token string) error {
	if err := identity.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	if err := s.ls.SetItem(ctx, KeyToken, token); err != nil {
		s.logUnavailable(err, "write token")
		return err
	}
	if err := s.ls.SetItem(ctx, KeyUser, string(raw)); err != nil {
		s.logUnavailable(err, "write user")
		// A token must never be stored without its identity.
		if rmErr := s.ls.RemoveItem(ctx, KeyToken); rmErr != nil {
			s.logUnavailable(rmErr, "remove token")
		}
		return err
	}
	return nil
}

// Read returns the stored identity, or nil when it is missing, unreadable or corrupt.
func (s *SessionStore) Read(ctx context.Context) *domain.Identity {
	raw, ok, err := s.ls.GetItem(ctx, KeyUser)
	if err != nil {
		s.logUnavailable(err, "read user")
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		s.log.Warn().Err(err).Msg("stored identity is not valid json")
		return nil
	}
	if err := identity.Validate(); err != nil {
		s.log.Warn().Err(err).Msg("stored identity is invalid")
		return nil
	}
	return &identity
}

func (s *SessionStore) ReadToken(ctx context.Context) (string, bool) {
	token, ok, err := s.ls.GetItem(ctx, KeyToken)
	if err != nil {
		s.logUnavailable(err, "read token")
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Clear removes both entries. Safe to call on an empty store.
func (s *SessionStore) Clear(ctx context.Context) {
	for _, key := range []string{KeyToken, KeyUser} {
		if err := s.ls.RemoveItem(ctx, key); err != nil {
			s.logUnavailable(err, "remove "+key)
		}
	}
}

func (s *SessionStore) logUnavailable(err error, op string) {
	ev := s.log.Warn()
	if errors.Is(err, ErrUnavailable) {
		ev = s.log.Debug()
	}
	ev.Err(err).Str("op", op).Msg("local storage failed")
}
