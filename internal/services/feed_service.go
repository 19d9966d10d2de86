package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/repositories"
	"go.uber.org/zap"
)

// Page sizes shared by the listing endpoints
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SortMode selects how a feed is ordered and filtered
type SortMode string

const (
	SortNewest    SortMode = "newest"
	SortTrending  SortMode = "trending"
	SortFollowing SortMode = "following"
)

// ParseSortMode maps a query value to a SortMode. Empty means newest.
func ParseSortMode(s string) (SortMode, error) {
	switch mode := SortMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return SortNewest, nil
	case SortNewest, SortTrending, SortFollowing:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: unknown sort mode %q", ErrInvalidOperation, s)
	}
}

// FeedRequest describes one page of a feed
type FeedRequest struct {
	Viewer  Viewer
	Sort    SortMode
	ThemeID uint
	Skip    int
	Limit   int
}

// FeedItem is a post with its author card
type FeedItem struct {
	models.Post
	Author *models.UserCompact `json:"author,omitempty"`
}

// FeedService composes ordered, visibility-filtered post lists
type FeedService struct {
	graph  *GraphService
	users  repositories.UserRepository
	posts  repositories.PostRepository
	logger *zap.Logger
}

// NewFeedService creates a new FeedService
func NewFeedService(graph *GraphService, users repositories.UserRepository, posts repositories.PostRepository, logger *zap.Logger) *FeedService {
	return &FeedService{graph: graph, users: users, posts: posts, logger: logger}
}

// ComposeFeed returns the page of posts described by req
func (s *FeedService) ComposeFeed(ctx context.Context, req FeedRequest) ([]models.Post, error) {
	if req.Sort == "" {
		req.Sort = SortNewest
	}
	q := repositories.PostQuery{
		ThemeID: req.ThemeID,
		Skip:    int64(max(req.Skip, 0)),
		Limit:   int64(clampLimit(req.Limit)),
	}

	switch req.Sort {
	case SortFollowing:
		if req.Viewer.IsAnonymous() {
			return []models.Post{}, nil
		}
		following, err := s.graph.FollowingSet(ctx, req.Viewer.ID)
		if err != nil {
			return nil, fmt.Errorf("load following set: %w", err)
		}
		if len(following) == 0 {
			return []models.Post{}, nil
		}
		q.AuthorIn = following
		q.Sort = repositories.PostSortNewest
	case SortNewest, SortTrending:
		if !req.Viewer.IsAdmin {
			hidden, err := s.hiddenAuthors(ctx, req.Viewer)
			if err != nil {
				return nil, err
			}
			q.AuthorNotIn = hidden
		}
		q.Sort = repositories.PostSortNewest
		if req.Sort == SortTrending {
			q.Sort = repositories.PostSortTrending
		}
	default:
		return nil, fmt.Errorf("%w: unknown sort mode %q", ErrInvalidOperation, req.Sort)
	}

	posts, err := s.posts.FindPosts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	repositories.SortPosts(posts, q.Sort)

	s.logger.Debug("Feed composed",
		zap.String("sort", string(req.Sort)),
		zap.Uint("viewer_id", req.Viewer.ID),
		zap.Int("posts", len(posts)))
	return posts, nil
}

// hiddenAuthors is every private account except the viewer and the
// accounts the viewer follows through accepted edges.
func (s *FeedService) hiddenAuthors(ctx context.Context, viewer Viewer) ([]uint, error) {
	private, err := s.users.GetPrivateUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load private users: %w", err)
	}
	if len(private) == 0 {
		return nil, nil
	}
	allowed := map[uint]struct{}{}
	if !viewer.IsAnonymous() {
		allowed[viewer.ID] = struct{}{}
		following, err := s.graph.FollowingSet(ctx, viewer.ID)
		if err != nil {
			return nil, fmt.Errorf("load following set: %w", err)
		}
		for _, id := range following {
			allowed[id] = struct{}{}
		}
	}
	hidden := make([]uint, 0, len(private))
	for _, id := range private {
		if _, ok := allowed[id]; !ok {
			hidden = append(hidden, id)
		}
	}
	return hidden, nil
}

// WithAuthors attaches the author card to each post
func (s *FeedService) WithAuthors(ctx context.Context, posts []models.Post) ([]FeedItem, error) {
	return attachAuthors(ctx, s.users, posts)
}

func attachAuthors(ctx context.Context, users repositories.UserRepository, posts []models.Post) ([]FeedItem, error) {
	seen := map[uint]struct{}{}
	ids := []uint{}
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; !ok {
			seen[p.AuthorID] = struct{}{}
			ids = append(ids, p.AuthorID)
		}
	}
	authors, err := users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}
	cards := make(map[uint]models.UserCompact, len(authors))
	for i := range authors {
		cards[authors[i].ID] = authors[i].ToCompact()
	}

	items := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		item := FeedItem{Post: p}
		if card, ok := cards[p.AuthorID]; ok {
			item.Author = &card
		}
		items = append(items, item)
	}
	return items, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
