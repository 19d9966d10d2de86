package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/moderation"
	"github.com/clashart/backend/internal/repositories"
	"go.uber.org/zap"
)

// MaxCommentLength bounds comment content in characters
const MaxCommentLength = 500

// CommentService adds, lists and removes moderated comments
type CommentService struct {
	comments  repositories.CommentRepository
	posts     *PostService
	postRepo  repositories.PostRepository
	moderator moderation.Moderator
	notifier  Notifier
	logger    *zap.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	comments repositories.CommentRepository,
	posts *PostService,
	postRepo repositories.PostRepository,
	moderator moderation.Moderator,
	notifier Notifier,
	logger *zap.Logger,
) *CommentService {
	return &CommentService{
		comments:  comments,
		posts:     posts,
		postRepo:  postRepo,
		moderator: moderator,
		notifier:  notifier,
		logger:    logger,
	}
}

// Add posts a comment by the viewer on a visible post
func (s *CommentService) Add(ctx context.Context, viewer Viewer, postID, content string) (*models.Comment, error) {
	if viewer.IsAnonymous() {
		return nil, fmt.Errorf("%w: sign in to comment", ErrForbidden)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment is empty", ErrInvalidOperation)
	}
	if len([]rune(content)) > MaxCommentLength {
		return nil, fmt.Errorf("%w: comment exceeds %d characters", ErrInvalidOperation, MaxCommentLength)
	}
	post, err := s.posts.visiblePost(ctx, viewer, postID)
	if err != nil {
		return nil, err
	}

	verdict := s.moderator.Moderate(ctx, content)
	if !moderation.Allowed(verdict) {
		s.logger.Info("Comment rejected by moderation", zap.Uint("user_id", viewer.ID), zap.String("post_id", postID))
		return nil, fmt.Errorf("%w: comment failed moderation", ErrContentRejected)
	}
	if verdict == moderation.Unavailable {
		s.logger.Warn("Moderation unavailable, publishing unchecked comment", zap.String("post_id", postID))
	}

	comment := &models.Comment{PostID: postID, UserID: viewer.ID, Content: content}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	if err := s.postRepo.IncrementCommentsCount(ctx, postID); err != nil {
		s.logger.Warn("Failed to bump comment counter", zap.String("post_id", postID), zap.Error(err))
	}
	s.notifier.Notify(ctx, models.Notification{
		Type:        models.NotificationComment,
		ActorID:     viewer.ID,
		RecipientID: post.AuthorID,
		TargetID:    postID,
		TargetType:  "post",
		Message:     "commented on your artwork",
	})
	return comment, nil
}

// List returns one page of a visible post's comments, newest first
func (s *CommentService) List(ctx context.Context, viewer Viewer, postID string, skip, limit int) ([]models.Comment, error) {
	if _, err := s.posts.visiblePost(ctx, viewer, postID); err != nil {
		return nil, err
	}
	return s.comments.GetCommentsByPostID(ctx, postID, max(skip, 0), clampLimit(limit))
}

// Delete removes a comment. Its author and admins only.
func (s *CommentService) Delete(ctx context.Context, viewer Viewer, id uint) error {
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: comment %d", ErrNotFound, id)
		}
		return err
	}
	if !viewer.IsAdmin && (viewer.IsAnonymous() || comment.UserID != viewer.ID) {
		return fmt.Errorf("%w: only the author or an admin can delete this comment", ErrForbidden)
	}
	if err := s.comments.DeleteComment(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if err := s.postRepo.DecrementCommentsCount(ctx, comment.PostID); err != nil {
		s.logger.Warn("Failed to lower comment counter", zap.String("post_id", comment.PostID), zap.Error(err))
	}
	return nil
}
