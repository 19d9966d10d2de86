package services

import (
	"context"
	"fmt"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/repositories"
	"go.uber.org/zap"
)

// LikeService toggles likes and keeps post counters in step
type LikeService struct {
	likes    repositories.LikeRepository
	posts    *PostService
	postRepo repositories.PostRepository
	notifier Notifier
	logger   *zap.Logger
}

// NewLikeService creates a new LikeService
func NewLikeService(likes repositories.LikeRepository, posts *PostService, postRepo repositories.PostRepository, notifier Notifier, logger *zap.Logger) *LikeService {
	return &LikeService{likes: likes, posts: posts, postRepo: postRepo, notifier: notifier, logger: logger}
}

// LikeState is the viewer's like on a post after a toggle
type LikeState struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// Toggle likes the post, or removes the viewer's like if present
func (s *LikeService) Toggle(ctx context.Context, viewer Viewer, postID string) (*LikeState, error) {
	if viewer.IsAnonymous() {
		return nil, fmt.Errorf("%w: sign in to like posts", ErrForbidden)
	}
	post, err := s.posts.visiblePost(ctx, viewer, postID)
	if err != nil {
		return nil, err
	}

	removed, err := s.likes.DeleteLike(ctx, postID, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("delete like: %w", err)
	}
	if removed {
		if err := s.postRepo.DecrementLikesCount(ctx, postID); err != nil {
			return nil, fmt.Errorf("decrement likes: %w", err)
		}
		return &LikeState{Liked: false, LikesCount: max(post.LikesCount-1, 0)}, nil
	}

	created, err := s.likes.CreateLikeIfAbsent(ctx, &models.Like{PostID: postID, UserID: viewer.ID})
	if err != nil {
		return nil, fmt.Errorf("create like: %w", err)
	}
	if !created {
		// a concurrent toggle by the same viewer won the insert
		return &LikeState{Liked: true, LikesCount: post.LikesCount}, nil
	}
	if err := s.postRepo.IncrementLikesCount(ctx, postID); err != nil {
		return nil, fmt.Errorf("increment likes: %w", err)
	}
	s.notifier.Notify(ctx, models.Notification{
		Type:        models.NotificationLike,
		ActorID:     viewer.ID,
		RecipientID: post.AuthorID,
		TargetID:    postID,
		TargetType:  "post",
		Message:     "liked your artwork",
	})
	return &LikeState{Liked: true, LikesCount: post.LikesCount + 1}, nil
}

// HasLiked reports whether the viewer likes the post
func (s *LikeService) HasLiked(ctx context.Context, viewer Viewer, postID string) (bool, error) {
	if viewer.IsAnonymous() {
		return false, nil
	}
	return s.likes.HasUserLikedPost(ctx, postID, viewer.ID)
}
