package api

import (
	"errors"
	"log"

	"github.com/labstack/echo/v4"

	apperrors "stockops.GO/core/errors"
)

// JSONError maps a service error to its HTTP response. AppErrors carry their
// own status; anything else becomes a 500 with the cause logged, not sent.
func JSONError(c echo.Context, err error) error {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.Printf("%s %s: %v", c.Request().Method, c.Path(), err)
		appErr = apperrors.Internal(err)
	}
	body := echo.Map{"error": appErr.Message, "code": appErr.Code}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	return c.JSON(appErr.HTTPStatus, body)
}
