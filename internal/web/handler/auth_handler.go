package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/core/service"
	"github.com/99minutos/user-portal/internal/infrastructure/metrics"
	"github.com/99minutos/user-portal/internal/web/middleware"
	"github.com/99minutos/user-portal/internal/web/view"
)

// Landing pages after a successful login.
const (
	adminHome = "/users"
	userHome  = "/profile"
)

// Forgetter drops the cached collaborators of a client.
type Forgetter interface {
	Forget(clientID string)
}

// AuthHandler serves login, registration and logout.
type AuthHandler struct {
	clients Forgetter
}

func NewAuthHandler(clients Forgetter) *AuthHandler { return &AuthHandler{clients: clients} }

func homeFor(identity domain.Identity) string {
	if identity.IsAdmin() {
		return adminHome
	}
	return userHome
}

// LoginPage renders the login form, or forwards an authenticated client home.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	sc, err := session(c)
	if err != nil {
		return err
	}
	if id := sc.Identity(); id != nil {
		return c.Redirect(http.StatusSeeOther, homeFor(*id))
	}

	page := view.Page{Title: "Sign in"}
	if c.QueryParam("registered") != "" {
		page = page.WithFlash(view.FlashInfo, "Registration succeeded. You can sign in now.")
	}
	return render(c, http.StatusOK, view.PageLogin, page)
}

func (h *AuthHandler) Login(c echo.Context) error {
	sc, err := session(c)
	if err != nil {
		return err
	}

	var form service.LoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}

	bundle, err := sc.Gateway().Login(c.Request().Context(), form.Email, form.Password)
	metrics.RecordAuthAttempt("login", err)
	if err != nil {
		form.Password = ""
		return renderFailure(c, view.PageLogin, view.Page{Title: "Sign in", Form: form}, err)
	}

	sc.Login(bundle.Identity, bundle.Token)
	return c.Redirect(http.StatusSeeOther, homeFor(bundle.Identity))
}

// SocialLogin handles POST /login/:provider.
func (h *AuthHandler) SocialLogin(c echo.Context) error {
	sc, err := session(c)
	if err != nil {
		return err
	}

	bundle, err := sc.Gateway().SocialLogin(c.Request().Context(), c.Param("provider"))
	metrics.RecordAuthAttempt("social_login", err)
	if err != nil {
		page := view.Page{Title: "Sign in"}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			page = page.WithFlash(view.FlashError, ve.Field("provider"))
			return render(c, http.StatusBadRequest, view.PageLogin, page)
		}
		return renderFailure(c, view.PageLogin, page, err)
	}

	sc.Login(bundle.Identity, bundle.Token)
	return c.Redirect(http.StatusSeeOther, homeFor(bundle.Identity))
}

func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return render(c, http.StatusOK, view.PageRegister, view.Page{Title: "Create account"})
}

// Register creates the account and sends the client to the login page. The
// client stays logged out.
func (h *AuthHandler) Register(c echo.Context) error {
	sc, err := session(c)
	if err != nil {
		return err
	}

	var form service.RegisterForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}

	_, err = sc.Gateway().Register(c.Request().Context(), form.Name, form.Email, form.Password)
	metrics.RecordAuthAttempt("register", err)
	if err != nil {
		form.Password = ""
		return renderFailure(c, view.PageRegister, view.Page{Title: "Create account", Form: form}, err)
	}
	return c.Redirect(http.StatusSeeOther, "/login?registered=1")
}

func (h *AuthHandler) Logout(c echo.Context) error {
	sc, err := session(c)
	if err != nil {
		return err
	}
	sc.Logout(c.Request().Context())
	h.clients.Forget(middleware.ClientIDFrom(c))
	metrics.LogoutsTotal.Inc()
	return c.Redirect(http.StatusSeeOther, "/login")
}

// Unauthorized is shown when a guarded route demands another role.
func (h *AuthHandler) Unauthorized(c echo.Context) error {
	return render(c, http.StatusForbidden, view.PageUnauthorized, view.Page{Title: "Access denied"})
}
