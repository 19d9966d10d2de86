package handlers

import (
	"net/http"
	"time"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow requests and follower lists
type FollowHandler struct {
	graph *services.GraphService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(graph *services.GraphService) *FollowHandler {
	return &FollowHandler{graph: graph}
}

// RegisterPublicRoutes registers follower lists, gated by account visibility
func (h *FollowHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/follow-requests", h.GetFollowRequests)
	g.POST("/follow-requests/:follower_id/accept", h.AcceptRequest)
	g.POST("/follow-requests/:follower_id/decline", h.DeclineRequest)
	g.DELETE("/followers/:follower_id", h.RemoveFollower)
}

// FollowUser follows a user, or requests to when the account is private
func (h *FollowHandler) FollowUser(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	targetID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	follow, err := h.graph.RequestFollow(c.Request().Context(), viewer.ID, targetID)
	if err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, models.RelationStatus{
		IsFollowing: follow.IsAccepted,
		IsPending:   !follow.IsAccepted,
	})
}

// UnfollowUser unfollows a user or withdraws a pending request
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	targetID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.graph.Unfollow(c.Request().Context(), viewer.ID, targetID); err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, models.RelationStatus{})
}

// GetFollowRequests lists the pending requests waiting on the viewer
func (h *FollowHandler) GetFollowRequests(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	pending, err := h.graph.PendingRequests(c.Request().Context(), viewer.ID)
	if err != nil {
		return toHTTPError(err)
	}
	type request struct {
		Follower    models.UserCompact `json:"follower"`
		RequestedAt time.Time          `json:"requested_at"`
	}
	out := make([]request, 0, len(pending))
	for _, f := range pending {
		r := request{RequestedAt: f.CreatedAt}
		if f.Follower != nil {
			r.Follower = f.Follower.ToCompact()
		}
		out = append(out, r)
	}
	return success(c, http.StatusOK, echo.Map{"requests": out})
}

// AcceptRequest accepts a pending follow request
func (h *FollowHandler) AcceptRequest(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	followerID, err := parseID(c, "follower_id")
	if err != nil {
		return err
	}
	if err := h.graph.AcceptRequest(c.Request().Context(), viewer.ID, followerID); err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, echo.Map{"accepted": true})
}

// DeclineRequest drops a pending follow request
func (h *FollowHandler) DeclineRequest(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	followerID, err := parseID(c, "follower_id")
	if err != nil {
		return err
	}
	if err := h.graph.DeclineRequest(c.Request().Context(), viewer.ID, followerID); err != nil {
		return toHTTPError(err)
	}
	return success(c, http.StatusOK, echo.Map{"declined": true})
}

// RemoveFollower drops an accepted follower of the viewer
func (h *FollowHandler) RemoveFollower(c echo.Context) error {
	viewer, err := requireViewer(c)
	if err != nil {
		return err
	}
	followerID, err := parseID(c, "follower_id")
	if err != nil {
		return err
	}
	if err := h.graph.RemoveFollower(c.Request().Context(), viewer.ID, followerID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FollowHandler) listUsers(c echo.Context, list func(uint) ([]models.User, error)) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	visible, err := h.graph.IsVisible(ctx, viewerFromContext(c), id)
	if err != nil {
		return toHTTPError(err)
	}
	if !visible {
		return echo.NewHTTPError(http.StatusForbidden, "This account is private")
	}
	users, err := list(id)
	if err != nil {
		return toHTTPError(err)
	}
	out := make([]models.UserCompact, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToCompact())
	}
	return success(c, http.StatusOK, echo.Map{"users": out})
}

// GetFollowers lists the accepted followers of a user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	return h.listUsers(c, func(id uint) ([]models.User, error) {
		return h.graph.Followers(c.Request().Context(), id)
	})
}

// GetFollowing lists the users a user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	return h.listUsers(c, func(id uint) ([]models.User, error) {
		return h.graph.Following(c.Request().Context(), id)
	})
}
