package services

import (
	"context"
	"fmt"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/moderation"
	"github.com/clashart/backend/internal/repositories"
	"go.uber.org/zap"
)

// PostService manages artwork posts
type PostService struct {
	posts     repositories.PostRepository
	likes     repositories.LikeRepository
	comments  repositories.CommentRepository
	users     repositories.UserRepository
	graph     *GraphService
	themes    *ThemeService
	moderator moderation.Moderator
	logger    *zap.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	posts repositories.PostRepository,
	likes repositories.LikeRepository,
	comments repositories.CommentRepository,
	users repositories.UserRepository,
	graph *GraphService,
	themes *ThemeService,
	moderator moderation.Moderator,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		posts:     posts,
		likes:     likes,
		comments:  comments,
		users:     users,
		graph:     graph,
		themes:    themes,
		moderator: moderator,
		logger:    logger,
	}
}

func (s *PostService) moderate(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	v := s.moderator.Moderate(ctx, text)
	if v == moderation.Unavailable {
		s.logger.Warn("Moderation unavailable, publishing unchecked text")
	}
	if !moderation.Allowed(v) {
		return fmt.Errorf("%w: description failed moderation", ErrContentRejected)
	}
	return nil
}

// Create publishes a post by the viewer
func (s *PostService) Create(ctx context.Context, viewer Viewer, req models.CreatePostRequest) (*models.Post, error) {
	if viewer.IsAnonymous() {
		return nil, fmt.Errorf("%w: sign in to post", ErrForbidden)
	}
	if _, err := s.themes.CheckOpen(ctx, req.ThemeID); err != nil {
		return nil, err
	}
	if err := s.moderate(ctx, req.Description); err != nil {
		return nil, err
	}
	post := &models.Post{
		AuthorID:            viewer.ID,
		ThemeID:             req.ThemeID,
		Description:         req.Description,
		ImageURL:            req.ImageURL,
		ProofOfWorkVideoURL: req.ProofOfWorkVideoURL,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.logger.Info("Post created", zap.String("post_id", post.ID.Hex()), zap.Uint("author_id", viewer.ID))
	return post, nil
}

// visiblePost loads a post and checks the viewer may see its author
func (s *PostService) visiblePost(ctx context.Context, viewer Viewer, id string) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: post %s", ErrNotFound, id)
		}
		return nil, err
	}
	ok, err := s.graph.IsVisible(ctx, viewer, post.AuthorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: the author's account is private", ErrForbidden)
	}
	return post, nil
}

// Get returns a post with its author card
func (s *PostService) Get(ctx context.Context, viewer Viewer, id string) (*FeedItem, error) {
	post, err := s.visiblePost(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	items, err := attachAuthors(ctx, s.users, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *PostService) owned(ctx context.Context, viewer Viewer, id string) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: post %s", ErrNotFound, id)
		}
		return nil, err
	}
	if viewer.IsAnonymous() || post.AuthorID != viewer.ID {
		return nil, fmt.Errorf("%w: only the author can change this post", ErrForbidden)
	}
	return post, nil
}

// Update edits the viewer's own post. Empty fields are left unchanged.
func (s *PostService) Update(ctx context.Context, viewer Viewer, id string, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.owned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if req.ThemeID != 0 && req.ThemeID != post.ThemeID {
		if _, err := s.themes.CheckOpen(ctx, req.ThemeID); err != nil {
			return nil, err
		}
		post.ThemeID = req.ThemeID
	}
	if req.Description != "" {
		if err := s.moderate(ctx, req.Description); err != nil {
			return nil, err
		}
		post.Description = req.Description
	}
	if req.ImageURL != "" {
		post.ImageURL = req.ImageURL
	}
	if req.ProofOfWorkVideoURL != "" {
		post.ProofOfWorkVideoURL = req.ProofOfWorkVideoURL
	}
	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// DeleteVideo clears the proof-of-work video of the viewer's own post
func (s *PostService) DeleteVideo(ctx context.Context, viewer Viewer, id string) (*models.Post, error) {
	post, err := s.owned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	post.ProofOfWorkVideoURL = ""
	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// Delete removes a post with its likes and comments. Authors and admins only.
func (s *PostService) Delete(ctx context.Context, viewer Viewer, id string) error {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: post %s", ErrNotFound, id)
		}
		return err
	}
	if !viewer.IsAdmin && (viewer.IsAnonymous() || post.AuthorID != viewer.ID) {
		return fmt.Errorf("%w: only the author or an admin can delete this post", ErrForbidden)
	}
	if err := s.purgeInteractions(ctx, id); err != nil {
		return err
	}
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.logger.Info("Post deleted", zap.String("post_id", id), zap.Uint("by", viewer.ID))
	return nil
}

func (s *PostService) purgeInteractions(ctx context.Context, postID string) error {
	if err := s.likes.DeleteLikesByPostID(ctx, postID); err != nil {
		return fmt.Errorf("delete likes of post %s: %w", postID, err)
	}
	if err := s.comments.DeleteCommentsByPostID(ctx, postID); err != nil {
		return fmt.Errorf("delete comments of post %s: %w", postID, err)
	}
	return nil
}

// ListByAuthor returns one page of an author's posts, newest first
func (s *PostService) ListByAuthor(ctx context.Context, viewer Viewer, authorID uint, skip, limit int) ([]models.Post, error) {
	ok, err := s.graph.IsVisible(ctx, viewer, authorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: the account is private", ErrForbidden)
	}
	return s.posts.FindPosts(ctx, repositories.PostQuery{
		AuthorIn: []uint{authorID},
		Sort:     repositories.PostSortNewest,
		Skip:     int64(max(skip, 0)),
		Limit:    int64(clampLimit(limit)),
	})
}

// DeleteByAuthor removes every post of authorID with their interactions
func (s *PostService) DeleteByAuthor(ctx context.Context, authorID uint) error {
	ids, err := s.posts.DeletePostsByAuthor(ctx, authorID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.purgeInteractions(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
