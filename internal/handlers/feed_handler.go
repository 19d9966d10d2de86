package handlers

import (
	"net/http"
	"strconv"

	"github.com/clashart/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed  *services.FeedService
	likes *services.LikeService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *services.FeedService, likes *services.LikeService) *FeedHandler {
	return &FeedHandler{feed: feed, likes: likes}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// EnrichedPost is a feed post with author info and the viewer's like flag
type EnrichedPost struct {
	services.FeedItem
	IsLiked bool `json:"is_liked"`
}

// GetFeed returns one page of the feed in the requested sort mode
func (h *FeedHandler) GetFeed(c echo.Context) error {
	mode, err := services.ParseSortMode(c.QueryParam("sort"))
	if err != nil {
		return toHTTPError(err)
	}
	var themeID uint
	if raw := c.QueryParam("theme_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid theme_id")
		}
		themeID = uint(id)
	}
	page, limit := pagination(c)
	viewer := viewerFromContext(c)
	ctx := c.Request().Context()

	posts, err := h.feed.ComposeFeed(ctx, services.FeedRequest{
		Viewer:  viewer,
		Sort:    mode,
		ThemeID: themeID,
		Skip:    (page - 1) * limit,
		Limit:   limit,
	})
	if err != nil {
		return toHTTPError(err)
	}
	items, err := h.feed.WithAuthors(ctx, posts)
	if err != nil {
		return toHTTPError(err)
	}

	enriched := make([]EnrichedPost, len(items))
	for i, item := range items {
		enriched[i].FeedItem = item
		liked, err := h.likes.HasLiked(ctx, viewer, item.ID.Hex())
		if err != nil {
			return toHTTPError(err)
		}
		enriched[i].IsLiked = liked
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": enriched,
		},
		"meta": echo.Map{
			"sort":         mode,
			"currentPage":  page,
			"itemsPerPage": limit,
			"hasNextPage":  len(posts) == limit,
		},
	})
}
