package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/repositories"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Search bounds
const (
	MinSearchLength  = 2
	MaxSearchResults = 5
)

// Profile is a user's public page as seen by a viewer
type Profile struct {
	User             models.UserCompact    `json:"user"`
	Bio              string                `json:"bio"`
	ExperiencePoints int                   `json:"experience_points"`
	Victories        int                   `json:"victories"`
	FollowersCount   int64                 `json:"followers_count"`
	FollowingCount   int64                 `json:"following_count"`
	Relation         models.RelationStatus `json:"relation"`
	IsOwner          bool                  `json:"is_owner"`
	HasAccess        bool                  `json:"has_access"`
	Posts            []models.Post         `json:"posts"`
}

// ProfileService reads and edits user profiles
type ProfileService struct {
	users         repositories.UserRepository
	graph         *GraphService
	posts         *PostService
	postRepo      repositories.PostRepository
	likes         repositories.LikeRepository
	comments      repositories.CommentRepository
	notifications repositories.NotificationRepository
	logger        *zap.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	users repositories.UserRepository,
	graph *GraphService,
	posts *PostService,
	postRepo repositories.PostRepository,
	likes repositories.LikeRepository,
	comments repositories.CommentRepository,
	notifications repositories.NotificationRepository,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		users:         users,
		graph:         graph,
		posts:         posts,
		postRepo:      postRepo,
		likes:         likes,
		comments:      comments,
		notifications: notifications,
		logger:        logger,
	}
}

// Get builds targetID's profile. Posts are included only when the viewer
// has access to the account.
func (s *ProfileService) Get(ctx context.Context, viewer Viewer, targetID uint) (*Profile, error) {
	user, err := s.graph.lookupUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	var (
		followers, following int64
		relation             models.RelationStatus
		access               bool
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		followers, following, err = s.graph.Counts(egCtx, targetID)
		return err
	})
	eg.Go(func() (err error) {
		relation, err = s.graph.Relation(egCtx, viewer.ID, targetID)
		return err
	})
	eg.Go(func() (err error) {
		access, err = s.graph.IsVisible(egCtx, viewer, targetID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	profile := &Profile{
		User:             user.ToCompact(),
		Bio:              user.Bio,
		ExperiencePoints: user.ExperiencePoints,
		Victories:        user.Victories,
		FollowersCount:   followers,
		FollowingCount:   following,
		Relation:         relation,
		IsOwner:          !viewer.IsAnonymous() && viewer.ID == targetID,
		HasAccess:        access,
		Posts:            []models.Post{},
	}
	if access {
		profile.Posts, err = s.posts.ListByAuthor(ctx, viewer, targetID, 0, MaxPageSize)
		if err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// Me returns the viewer's own account
func (s *ProfileService) Me(ctx context.Context, viewer Viewer) (*models.User, error) {
	if viewer.IsAnonymous() {
		return nil, fmt.Errorf("%w: not signed in", ErrForbidden)
	}
	return s.graph.lookupUser(ctx, viewer.ID)
}

// Update edits the viewer's own profile. Display names are unique.
func (s *ProfileService) Update(ctx context.Context, viewer Viewer, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Me(ctx, viewer)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return nil, fmt.Errorf("%w: display name is required", ErrInvalidOperation)
	}
	taken, err := s.users.DisplayNameTaken(ctx, name, user.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: display name %q is already taken", ErrConflict, name)
	}

	user.DisplayName = name
	user.Bio = req.Bio
	user.AvatarURL = req.AvatarURL
	user.IsPrivate = req.IsPrivate
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %d: %w", user.ID, err)
	}
	return user, nil
}

// Search finds users by display name or email
func (s *ProfileService) Search(ctx context.Context, query string) ([]models.UserCompact, error) {
	query = strings.TrimSpace(query)
	results := []models.UserCompact{}
	if len([]rune(query)) < MinSearchLength {
		return results, nil
	}
	users, err := s.users.SearchUsers(ctx, query, MaxSearchResults)
	if err != nil {
		return nil, err
	}
	for i := range users {
		results = append(results, users[i].ToCompact())
	}
	return results, nil
}

// DeleteAccount removes the viewer's account and everything it owns. Follow
// edges are purged first because they restrict user deletion.
func (s *ProfileService) DeleteAccount(ctx context.Context, viewer Viewer) error {
	if viewer.IsAnonymous() {
		return fmt.Errorf("%w: not signed in", ErrForbidden)
	}
	if _, err := s.graph.PurgeEdges(ctx, viewer.ID); err != nil {
		return err
	}

	liked, err := s.likes.DeleteLikesByUserID(ctx, viewer.ID)
	if err != nil {
		return fmt.Errorf("delete likes: %w", err)
	}
	for _, postID := range liked {
		if err := s.postRepo.DecrementLikesCount(ctx, postID); err != nil {
			s.logger.Warn("Failed to lower like counter", zap.String("post_id", postID), zap.Error(err))
		}
	}
	commented, err := s.comments.DeleteCommentsByUserID(ctx, viewer.ID)
	if err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	for _, postID := range commented {
		if err := s.postRepo.DecrementCommentsCount(ctx, postID); err != nil {
			s.logger.Warn("Failed to lower comment counter", zap.String("post_id", postID), zap.Error(err))
		}
	}

	if err := s.posts.DeleteByAuthor(ctx, viewer.ID); err != nil {
		return fmt.Errorf("delete posts: %w", err)
	}
	if err := s.notifications.DeleteForUser(ctx, viewer.ID); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	if err := s.users.DeleteUser(ctx, viewer.ID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: user %d", ErrNotFound, viewer.ID)
		}
		return fmt.Errorf("delete user %d: %w", viewer.ID, err)
	}
	s.logger.Info("Account deleted", zap.Uint("user_id", viewer.ID))
	return nil
}
