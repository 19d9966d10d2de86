package handlers

import (
	"net/http"

	"github.com/clashart/backend/internal/middleware"
	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ThemeHandler handles competition theme requests
type ThemeHandler struct {
	themes *services.ThemeService
}

// NewThemeHandler creates a new ThemeHandler
func NewThemeHandler(themes *services.ThemeService) *ThemeHandler {
	return &ThemeHandler{themes: themes}
}

// RegisterPublicRoutes registers theme reads
func (h *ThemeHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/themes/active", h.GetActive)
	g.GET("/themes", h.GetSelectable)
}

// RegisterAdminRoutes registers theme management behind the admin role
func (h *ThemeHandler) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/themes", h.CreateTheme, middleware.RequireAdmin())
}

// GetActive returns the running competition
func (h *ThemeHandler) GetActive(c echo.Context) error {
	theme, err := h.themes.Active(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, theme)
}

// GetSelectable returns the themes new posts can be submitted to
func (h *ThemeHandler) GetSelectable(c echo.Context) error {
	themes, err := h.themes.Selectable(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, echo.Map{"themes": themes})
}

// CreateTheme adds a competition theme
func (h *ThemeHandler) CreateTheme(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	var req models.CreateThemeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	theme, err := h.themes.Create(c.Request().Context(), viewer, req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusCreated, theme)
}
