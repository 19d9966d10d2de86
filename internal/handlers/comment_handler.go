package handlers

import (
	"net/http"
	"time"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterPublicRoutes registers comment reads open to anonymous viewers
func (h *CommentHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/posts/:id/comments", h.GetComments)
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// EnrichedComment is a comment with its author card
type EnrichedComment struct {
	ID        uint               `json:"id"`
	PostID    string             `json:"post_id"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"created_at"`
	Author    models.UserCompact `json:"author"`
}

// GetComments returns one page of a post's comments, newest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	page, limit := pagination(c)
	comments, err := h.comments.List(c.Request().Context(), viewerFromContext(c), c.Param("id"), (page-1)*limit, limit)
	if err != nil {
		return toHTTPError(err)
	}
	out := make([]EnrichedComment, 0, len(comments))
	for _, cm := range comments {
		e := EnrichedComment{ID: cm.ID, PostID: cm.PostID, Content: cm.Content, CreatedAt: cm.CreatedAt}
		if cm.User != nil {
			e.Author = cm.User.ToCompact()
		}
		out = append(out, e)
	}
	return success(c, http.StatusOK, echo.Map{"comments": out})
}

// CreateComment adds a moderated comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	comment, err := h.comments.Add(c.Request().Context(), viewer, c.Param("id"), req.Content)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusCreated, comment)
}

// DeleteComment removes a comment. Its author and admins only.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.comments.Delete(c.Request().Context(), viewer, id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
