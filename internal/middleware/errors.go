package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Middleware rejections use the same RFC 7807 body as handler errors. The type
// is duplicated here because handler imports middleware.
type problemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

const (
	errorTypeUnauthorized = "https://pennywise.dev/errors/unauthorized"
	errorTypeForbidden    = "https://pennywise.dev/errors/forbidden"
	errorTypeRateLimit    = "https://pennywise.dev/errors/rate-limit"
)

func problem(c echo.Context, status int, typ, detail string) error {
	return c.JSON(status, problemDetails{
		Type:     typ,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

func unauthorizedError(c echo.Context, detail string) error {
	return problem(c, http.StatusUnauthorized, errorTypeUnauthorized, detail)
}

func forbiddenError(c echo.Context, detail string) error {
	return problem(c, http.StatusForbidden, errorTypeForbidden, detail)
}
