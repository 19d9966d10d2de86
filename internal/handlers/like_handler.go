package handlers

import (
	"net/http"

	"github.com/clashart/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles like-related HTTP requests
type LikeHandler struct {
	likes *services.LikeService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likes *services.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
}

// ToggleLike likes the post, or unlikes it if the viewer already did
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	state, err := h.likes.Toggle(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, state)
}
