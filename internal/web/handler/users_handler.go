package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/core/service"
	"github.com/99minutos/user-portal/internal/web/view"
)

// UsersHandler serves the admin user listing and its CRUD forms.
type UsersHandler struct {
	dirs Directories
}

func NewUsersHandler(dirs Directories) *UsersHandler {
	return &UsersHandler{dirs: dirs}
}

// UsersData is the payload of the users page.
type UsersData struct {
	Users []domain.Identity
	Query service.UserQuery
}

func queryFrom(c echo.Context) service.UserQuery {
	return service.UserQuery{
		Search: c.QueryParam("q"),
		Role:   c.QueryParam("role"),
		Sort:   c.QueryParam("sort"),
	}
}

// page loads the listing filtered by q.
func (h *UsersHandler) page(c echo.Context, q service.UserQuery) (view.Page, error) {
	page := view.Page{Title: "Users"}
	users, err := directory(c, h.dirs).List(c.Request().Context())
	if err != nil {
		return page, err
	}
	page.Data = UsersData{Users: service.Filter(users, q), Query: q}
	return page, nil
}

func (h *UsersHandler) List(c echo.Context) error {
	q := queryFrom(c)
	page, err := h.page(c, q)
	if err != nil {
		page.Data = UsersData{Query: q}
		return renderFailure(c, view.PageUsers, page, err)
	}

	switch {
	case c.QueryParam("created") != "":
		page = page.WithFlash(view.FlashInfo, "User created.")
	case c.QueryParam("updated") != "":
		page = page.WithFlash(view.FlashInfo, "User updated.")
	case c.QueryParam("deleted") != "":
		page = page.WithFlash(view.FlashInfo, "User deleted.")
	}
	return render(c, http.StatusOK, view.PageUsers, page)
}

func (h *UsersHandler) Create(c echo.Context) error {
	var form service.CreateUserForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}

	if _, err := directory(c, h.dirs).Create(c.Request().Context(), form); err != nil {
		return h.fail(c, form, err)
	}
	return c.Redirect(http.StatusSeeOther, "/users?created=1")
}

// Update handles POST /users/:id. Empty fields are left unchanged.
func (h *UsersHandler) Update(c echo.Context) error {
	var form service.ProfileForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form")
	}

	id := c.Param("id")
	updated, err := directory(c, h.dirs).Update(c.Request().Context(), id, form)
	if err != nil {
		return h.fail(c, nil, err)
	}

	if sc, err := session(c); err == nil {
		if self := sc.Identity(); self != nil && self.ID == updated.ID {
			sc.Refresh(*updated)
		}
	}
	return c.Redirect(http.StatusSeeOther, "/users?updated="+url.QueryEscape(id))
}

// Delete handles POST /users/:id/delete.
func (h *UsersHandler) Delete(c echo.Context) error {
	if err := directory(c, h.dirs).Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, nil, err)
	}
	return c.Redirect(http.StatusSeeOther, "/users?deleted=1")
}

// fail re-renders the listing with err. The listing itself is reloaded so the
// table stays visible next to the failed form.
func (h *UsersHandler) fail(c echo.Context, form any, err error) error {
	q := service.UserQuery{}
	page, listErr := h.page(c, q)
	if listErr != nil {
		page.Data = UsersData{Query: q}
	}
	if f, ok := form.(service.CreateUserForm); ok {
		f.Password = ""
		page.Form = f
	}
	return renderFailure(c, view.PageUsers, page, err)
}
