package handler

import (
	"net/http"

	"agrostore/internal/apperr"

	"github.com/labstack/echo/v4"
)

// statusForKind maps the error taxonomy onto HTTP status codes.
func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindStorageFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders a classified error as {"error": message} with the
// matching status code.
func respondError(c echo.Context, err error) error {
	return c.JSON(statusForKind(apperr.KindOf(err)), echo.Map{
		"error": apperr.MessageOf(err),
	})
}
