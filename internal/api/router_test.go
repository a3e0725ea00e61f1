package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/user-portal/internal/infrastructure/db/memory"
	"github.com/99minutos/user-portal/pkg/logger"
)

type apiResult struct {
	status int
	body   map[string]json.RawMessage
}

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	accounts, err := memory.DefaultAccounts()
	require.NoError(t, err)
	return NewRouter(Deps{
		Users:     memory.NewUserRepository(accounts...),
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		BasePath:  "/api",
		Log:       logger.Nop(),
	})
}

func call(t *testing.T, h http.Handler, method, path, token, body string) apiResult {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := apiResult{status: rec.Code}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res.body), rec.Body.String())
	return res
}

func (r apiResult) message(t *testing.T) string {
	var msg string
	require.NoError(t, json.Unmarshal(r.body["message"], &msg))
	return msg
}

func login(t *testing.T, h http.Handler, email, password string) (token, role string) {
	t.Helper()
	res := call(t, h, http.MethodPost, "/api/auth/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, res.status)

	var data struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(res.body["data"], &data))
	return data.Token, data.User.Role
}

func TestRouter_SeededLogins(t *testing.T) {
	h := newTestAPI(t)

	token, role := login(t, h, "admin@example.com", memory.SeedPassword)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin", role)

	token, role = login(t, h, "user@example.com", memory.SeedPassword)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user", role)

	for _, creds := range [][2]string{
		{"admin@example.com", "wrong"},
		{"jane@example.com", memory.SeedPassword},
		{"ghost@example.com", memory.SeedPassword},
	} {
		res := call(t, h, http.MethodPost, "/api/auth/login", "", `{"email":"`+creds[0]+`","password":"`+creds[1]+`"}`)
		assert.Equal(t, http.StatusUnauthorized, res.status, creds[0])
		assert.Equal(t, "invalid email or password", res.message(t))
	}
}

func TestRouter_RegisterDuplicate(t *testing.T) {
	h := newTestAPI(t)

	res := call(t, h, http.MethodPost, "/api/auth/register", "", `{"name":"New Person","email":"new@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, res.status)

	res = call(t, h, http.MethodPost, "/api/auth/register", "", `{"name":"New Person","email":"NEW@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, res.status)
	assert.Equal(t, "email already registered", res.message(t))

	res = call(t, h, http.MethodPost, "/api/auth/register", "", `{"name":"N","email":"x@example.com","password":"1"}`)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Contains(t, res.message(t), "name must be at least 2 characters")
}

func TestRouter_UsersRequireAdmin(t *testing.T) {
	h := newTestAPI(t)

	res := call(t, h, http.MethodGet, "/api/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, res.status)

	userToken, _ := login(t, h, "user@example.com", memory.SeedPassword)
	res = call(t, h, http.MethodGet, "/api/users", userToken, "")
	assert.Equal(t, http.StatusForbidden, res.status)

	adminToken, _ := login(t, h, "admin@example.com", memory.SeedPassword)
	res = call(t, h, http.MethodGet, "/api/users", adminToken, "")
	require.Equal(t, http.StatusOK, res.status)

	var users []map[string]any
	require.NoError(t, json.Unmarshal(res.body["data"], &users))
	assert.Len(t, users, 5)
}

func TestRouter_UserCRUD(t *testing.T) {
	h := newTestAPI(t)
	adminToken, _ := login(t, h, "admin@example.com", memory.SeedPassword)
	userToken, _ := login(t, h, "user@example.com", memory.SeedPassword)

	res := call(t, h, http.MethodPost, "/api/users", adminToken, `{"name":"Staff","email":"staff@example.com","password":"secret1","role":"admin"}`)
	require.Equal(t, http.StatusCreated, res.status)
	var created struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(res.body["data"], &created))
	assert.Equal(t, "admin", created.Role)

	// a standard user may rename themself but not others
	res = call(t, h, http.MethodPatch, "/api/users/2", userToken, `{"name":"Renamed User"}`)
	assert.Equal(t, http.StatusOK, res.status)
	res = call(t, h, http.MethodPatch, "/api/users/"+created.ID, userToken, `{"name":"Hijack"}`)
	assert.Equal(t, http.StatusForbidden, res.status)
	res = call(t, h, http.MethodPatch, "/api/users/2", userToken, `{"role":"admin"}`)
	assert.Equal(t, http.StatusForbidden, res.status)

	res = call(t, h, http.MethodDelete, "/api/users/"+created.ID, adminToken, "")
	assert.Equal(t, http.StatusOK, res.status)
	res = call(t, h, http.MethodDelete, "/api/users/"+created.ID, adminToken, "")
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "user not found", res.message(t))
}

func TestRouter_Health(t *testing.T) {
	h := newTestAPI(t)

	res := call(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, res.status)

	res = call(t, h, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, res.status)
}
