package handlers

import (
	"net/http"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	profiles *services.ProfileService
	posts    *services.PostService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(profiles *services.ProfileService, posts *services.PostService) *UserHandler {
	return &UserHandler{profiles: profiles, posts: posts}
}

// RegisterPublicRoutes registers routes open to anonymous viewers
func (h *UserHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

// RegisterProfileRoutes registers routes for the signed-in user
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.DELETE("/profile", h.DeleteProfile)
	g.GET("/users/search", h.SearchUsers)
}

// GetUser returns another user's profile as seen by the viewer
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.profiles.Get(c.Request().Context(), viewerFromContext(c), id)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, profile)
}

// GetUserPosts returns one page of a user's posts
func (h *UserHandler) GetUserPosts(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	page, limit := pagination(c)
	posts, err := h.posts.ListByAuthor(c.Request().Context(), viewerFromContext(c), id, (page-1)*limit, limit)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, echo.Map{"posts": posts})
}

// GetProfile retrieves the authenticated user's account
func (h *UserHandler) GetProfile(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	user, err := h.profiles.Me(c.Request().Context(), viewer)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	user, err := h.profiles.Update(c.Request().Context(), viewer, req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, user)
}

// DeleteProfile deletes the authenticated user's account and content
func (h *UserHandler) DeleteProfile(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	if err := h.profiles.DeleteAccount(c.Request().Context(), viewer); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SearchUsers searches for users by display name or email
func (h *UserHandler) SearchUsers(c echo.Context) error {
	users, err := h.profiles.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, echo.Map{"users": users})
}
