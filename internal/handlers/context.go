package handlers

import (
	"net/http"
	"strconv"

	"github.com/clashart/backend/internal/middleware"
	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// viewerFromContext resolves the request's viewer from the JWT claims
func viewerFromContext(c echo.Context) services.Viewer {
	claims := middleware.Claims(c)
	if claims == nil {
		return services.Anonymous
	}
	return services.Viewer{ID: claims.UserID, IsAdmin: claims.Role == models.RoleAdmin}
}

// requireViewer is viewerFromContext for routes that need a signed-in user
func requireViewer(c echo.Context) (services.Viewer, error) {
	v := viewerFromContext(c)
	if v.IsAnonymous() {
		return v, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return v, nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// pagination reads page and limit query parameters
func pagination(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > services.MaxPageSize {
		limit = services.DefaultPageSize
	}
	return page, limit
}

func success(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}
