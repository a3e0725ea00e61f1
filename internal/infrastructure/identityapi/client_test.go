package identityapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/core/ports"
)

const userJSON = `{"id":"1","name":"Admin User","email":"admin@example.com","role":"admin","status":"active","createdAt":"2023-01-15T00:00:00Z","updatedAt":"2023-01-15T00:00:00Z"}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/api/", Timeout: time.Second})
	require.NoError(t, err)
	return c
}

func authErr(t *testing.T, err error) *domain.AuthError {
	t.Helper()
	var ae *domain.AuthError
	require.ErrorAs(t, err, &ae)
	return ae
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, u := range []string{"", "localhost:3001", "://nope"} {
		_, err := New(Config{BaseURL: u})
		assert.Error(t, err, u)
	}
}

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"email": "admin@example.com", "password": "password"}, body)

		_, _ = io.WriteString(w, `{"data":{"user":`+userJSON+`,"token":"tok"}}`)
	})

	bundle, err := c.Login(context.Background(), "admin@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "tok", bundle.Token)
	assert.Equal(t, domain.RoleAdmin, bundle.Identity.Role)
	assert.Equal(t, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), bundle.Identity.CreatedAt)
}

func TestClient_RejectedCarriesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"invalid email or password"}`)
	})

	_, err := c.Login(context.Background(), "admin@example.com", "wrong")
	assert.True(t, errors.Is(err, domain.ErrRejected))
	ae := authErr(t, err)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, "invalid email or password", ae.Message)
}

func TestClient_RejectedWithoutBodyUsesStatusText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Register(context.Background(), "N", "n@example.com", "secret1")
	ae := authErr(t, err)
	assert.Equal(t, domain.KindRejected, ae.Kind)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), ae.Message)
}

func TestClient_UnusableSuccessBodyIsConnectionError(t *testing.T) {
	for name, body := range map[string]string{
		"not json":  "<html>",
		"no data":   `{"message":"ok"}`,
		"null data": `{"data":null}`,
		"no token":  `{"data":{"user":` + userJSON + `}}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})
			_, err := c.Login(context.Background(), "admin@example.com", "password")
			assert.True(t, errors.Is(err, domain.ErrConnection))
			assert.Equal(t, domain.ConnectionErrorMessage, authErr(t, err).Message)
		})
	}
}

func TestClient_TransportFailureIsConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: url})
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "admin@example.com", "password")
	assert.True(t, errors.Is(err, domain.ErrConnection))
	assert.False(t, errors.Is(err, domain.ErrRejected))
}

func TestClient_UsersSendBearerToken(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-admin", r.Header.Get("Authorization"))
		seen = append(seen, r.Method+" "+r.URL.Path)

		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `{"data":[`+userJSON+`]}`)
		case http.MethodPost, http.MethodPatch:
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"data":`+userJSON+`}`)
		case http.MethodDelete:
			_, _ = io.WriteString(w, `{"message":"user deleted"}`)
		}
	})
	ctx := context.Background()

	users, err := c.ListUsers(ctx, "tok-admin")
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = c.CreateUser(ctx, "tok-admin", ports.CreateUserInput{Name: "A", Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)

	name := "Renamed"
	_, err = c.UpdateUser(ctx, "tok-admin", "1", ports.UpdateUserInput{Name: &name})
	require.NoError(t, err)

	require.NoError(t, c.DeleteUser(ctx, "tok-admin", "1"))

	assert.Equal(t, []string{
		"GET /api/users",
		"POST /api/users",
		"PATCH /api/users/1",
		"DELETE /api/users/1",
	}, seen)
}

func TestClient_HonoursContextCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.ListUsers(ctx, "tok")
	assert.True(t, errors.Is(err, domain.ErrConnection))
}
