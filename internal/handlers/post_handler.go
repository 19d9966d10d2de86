package handlers

import (
	"net/http"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	posts *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// RegisterPublicRoutes registers post reads open to anonymous viewers
func (h *PostHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/posts/:id", h.GetPost)
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.DELETE("/posts/:id/video", h.DeleteVideo)
}

// CreatePost publishes a new artwork
func (h *PostHandler) CreatePost(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	post, err := h.posts.Create(c.Request().Context(), viewer, req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusCreated, post)
}

// GetPost returns a single post with its author
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.posts.Get(c.Request().Context(), viewerFromContext(c), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, post)
}

// UpdatePost edits the viewer's own post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	post, err := h.posts.Update(c.Request().Context(), viewer, c.Param("id"), req)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, post)
}

// DeletePost removes a post. Authors and admins only.
func (h *PostHandler) DeletePost(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	if err := h.posts.Delete(c.Request().Context(), viewer, c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteVideo removes the proof-of-work video from the viewer's post
func (h *PostHandler) DeleteVideo(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	post, err := h.posts.DeleteVideo(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, post)
}
