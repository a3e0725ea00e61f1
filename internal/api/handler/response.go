package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-portal/internal/core/domain"
)

// errInvalidPayload marks bind and validation failures; the error handler
// renders them as 400 with the joined field messages.
var errInvalidPayload = errors.New("invalid payload")

// IsInvalidPayload reports whether err came from request binding or validation.
func IsInvalidPayload(err error) bool { return errors.Is(err, errInvalidPayload) }

// dataResponse is the success envelope of every identity API endpoint.
type dataResponse[T any] struct {
	Data T `json:"data"`
}

// messageResponse is the error envelope, also used for bodiless successes.
type messageResponse struct {
	Message string `json:"message"`
}

func respond[T any](c echo.Context, status int, data T) error {
	return c.JSON(status, dataResponse[T]{Data: data})
}

// bindAndValidate decodes the JSON body into req and runs the echo validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: malformed body", errInvalidPayload)
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}

func respondMessage(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// Named envelopes referenced by the swag annotations.
type (
	bundleResponse = dataResponse[*domain.CredentialBundle]
	userResponse   = dataResponse[*domain.Identity]
	usersResponse  = dataResponse[[]domain.Identity]
)
