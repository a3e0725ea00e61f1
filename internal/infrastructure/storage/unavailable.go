package storage

import (
	"context"
	"errors"

	"github.com/99minutos/user-portal/internal/core/ports"
)

// ErrUnavailable is returned by every operation of a disabled backend.
var ErrUnavailable = errors.New("storage unavailable")

// Unavailable stands in for storage the host environment has disabled.
type Unavailable struct{}

func (Unavailable) Scope(string) ports.LocalStorage { return Unavailable{} }

func (Unavailable) GetItem(context.Context, string) (string, bool, error) {
	return "", false, ErrUnavailable
}

func (Unavailable) SetItem(context.Context, string, string) error { return ErrUnavailable }

func (Unavailable) RemoveItem(context.Context, string) error { return ErrUnavailable }
