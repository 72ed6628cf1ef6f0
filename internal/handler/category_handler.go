package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/domain"
)

// GetCategories handles GET /api/v1/categories and lists the expense catalog
func GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Categories())
}
