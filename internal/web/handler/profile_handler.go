package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-portal/internal/core/service"
	"github.com/99minutos/user-portal/internal/web/view"
)

// ProfileHandler serves the self-service profile page.
type ProfileHandler struct {
	dirs Directories
}

func NewProfileHandler(dirs Directories) *ProfileHandler {
	return &ProfileHandler{dirs: dirs}
}

func (h *ProfileHandler) Show(c echo.Context) error {
	sc, err := session(c)
	if err != nil {
		return err
	}
	form := service.ProfileForm{}
	if id := sc.Identity(); id != nil {
		form.Name = id.Name
	}

	page := view.Page{Title: "Profile", Form: form}
	if c.QueryParam("updated") != "" {
		page = page.WithFlash(view.FlashInfo, "Profile updated.")
	}
	return render(c, http.StatusOK, view.PageProfile, page)
}

// Update changes the name and, when given, the password of the current
// identity, then refreshes the session with the server's copy.
func (h *ProfileHandler) Update(c echo.Context) error {
	sc, err := session(c)
	if err != nil {
		return err
	}
	self := sc.Identity()
	if self == nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	var form service.ProfileForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}
	form.Email, form.Role = "", ""

	updated, err := directory(c, h.dirs).UpdateProfile(c.Request().Context(), *self, form)
	if err != nil {
		form.Password = ""
		return renderFailure(c, view.PageProfile, view.Page{Title: "Profile", Form: form}, err)
	}

	sc.Refresh(*updated)
	return c.Redirect(http.StatusSeeOther, "/profile?updated=1")
}
