package services

import (
	"context"
	"fmt"
	"time"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/repositories"
	"go.uber.org/zap"
)

// Notifier receives notifications raised by the services
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// GraphService owns the follow edges between users. It is the only
// writer of follows and the single source of the visibility rule.
type GraphService struct {
	follows  repositories.FollowRepository
	users    repositories.UserRepository
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewGraphService creates a new GraphService
func NewGraphService(follows repositories.FollowRepository, users repositories.UserRepository, notifier Notifier, logger *zap.Logger) *GraphService {
	return &GraphService{
		follows:  follows,
		users:    users,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *GraphService) lookupUser(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	return u, nil
}

// RequestFollow creates an edge from followerID to targetID. The edge is
// accepted at once for public targets and pending for private ones.
// Repeating the request returns the existing edge unchanged.
func (s *GraphService) RequestFollow(ctx context.Context, followerID, targetID uint) (*models.Follow, error) {
	if followerID == targetID {
		return nil, fmt.Errorf("%w: users cannot follow themselves", ErrInvalidOperation)
	}
	target, err := s.lookupUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	follow := &models.Follow{
		FollowerID: followerID,
		FollowedID: targetID,
		IsAccepted: !target.IsPrivate,
		CreatedAt:  s.now(),
	}
	created, err := s.follows.CreateFollowIfAbsent(ctx, follow)
	if err != nil {
		return nil, fmt.Errorf("create follow %d->%d: %w", followerID, targetID, err)
	}
	if !created {
		existing, err := s.follows.GetFollow(ctx, followerID, targetID)
		if err != nil {
			return nil, fmt.Errorf("load follow %d->%d: %w", followerID, targetID, err)
		}
		return existing, nil
	}

	s.logger.Info("Follow created",
		zap.Uint("follower_id", followerID),
		zap.Uint("followed_id", targetID),
		zap.Bool("accepted", follow.IsAccepted))

	n := models.Notification{
		Type:        models.NotificationFollow,
		ActorID:     followerID,
		RecipientID: targetID,
		TargetID:    fmt.Sprint(followerID),
		TargetType:  "user",
		Message:     "started following you",
	}
	if !follow.IsAccepted {
		n.Type = models.NotificationFollowRequest
		n.Message = "requested to follow you"
	}
	s.notifier.Notify(ctx, n)
	return follow, nil
}

// Unfollow removes the edge from followerID to targetID in any state.
// A missing edge is not an error.
func (s *GraphService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	if _, err := s.follows.DeleteFollow(ctx, followerID, targetID); err != nil {
		return fmt.Errorf("delete follow %d->%d: %w", followerID, targetID, err)
	}
	return nil
}

// AcceptRequest accepts the pending request of followerID toward targetID
// and restarts the edge's timestamp.
func (s *GraphService) AcceptRequest(ctx context.Context, targetID, followerID uint) error {
	ok, err := s.follows.AcceptFollow(ctx, followerID, targetID, s.now())
	if err != nil {
		return fmt.Errorf("accept follow %d->%d: %w", followerID, targetID, err)
	}
	if !ok {
		return fmt.Errorf("%w: no pending request from user %d", ErrNotFound, followerID)
	}
	s.notifier.Notify(ctx, models.Notification{
		Type:        models.NotificationFollowAccepted,
		ActorID:     targetID,
		RecipientID: followerID,
		TargetID:    fmt.Sprint(targetID),
		TargetType:  "user",
		Message:     "accepted your follow request",
	})
	return nil
}

// DeclineRequest drops the pending request of followerID toward targetID.
// Accepted edges are left alone; see RemoveFollower.
func (s *GraphService) DeclineRequest(ctx context.Context, targetID, followerID uint) error {
	if _, err := s.follows.DeletePendingFollow(ctx, followerID, targetID); err != nil {
		return fmt.Errorf("decline follow %d->%d: %w", followerID, targetID, err)
	}
	return nil
}

// RemoveFollower drops an accepted follower of targetID
func (s *GraphService) RemoveFollower(ctx context.Context, targetID, followerID uint) error {
	if _, err := s.follows.DeleteAcceptedFollow(ctx, followerID, targetID); err != nil {
		return fmt.Errorf("remove follower %d of %d: %w", followerID, targetID, err)
	}
	return nil
}

// IsVisible reports whether viewer may see ownerID's content: the owner
// themselves, admins, anyone for public owners, and accepted followers
// for private owners.
func (s *GraphService) IsVisible(ctx context.Context, viewer Viewer, ownerID uint) (bool, error) {
	if !viewer.IsAnonymous() && viewer.ID == ownerID {
		return true, nil
	}
	if viewer.IsAdmin {
		return true, nil
	}
	owner, err := s.lookupUser(ctx, ownerID)
	if err != nil {
		return false, err
	}
	if !owner.IsPrivate {
		return true, nil
	}
	if viewer.IsAnonymous() {
		return false, nil
	}
	return s.follows.IsFollowing(ctx, viewer.ID, ownerID)
}

// FollowingSet returns the IDs the viewer follows through accepted edges
func (s *GraphService) FollowingSet(ctx context.Context, viewerID uint) ([]uint, error) {
	if viewerID == 0 {
		return []uint{}, nil
	}
	return s.follows.GetFollowingIDs(ctx, viewerID)
}

// Counts returns the accepted follower and following counts of userID
func (s *GraphService) Counts(ctx context.Context, userID uint) (followers, following int64, err error) {
	if followers, err = s.follows.GetFollowersCount(ctx, userID); err != nil {
		return 0, 0, err
	}
	if following, err = s.follows.GetFollowingCount(ctx, userID); err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

// Relation describes the viewer's edge toward targetID
func (s *GraphService) Relation(ctx context.Context, viewerID, targetID uint) (models.RelationStatus, error) {
	var status models.RelationStatus
	if viewerID == 0 || viewerID == targetID {
		return status, nil
	}
	edge, err := s.follows.GetFollow(ctx, viewerID, targetID)
	if err != nil {
		if isNotFound(err) {
			return status, nil
		}
		return status, err
	}
	status.IsFollowing = edge.IsAccepted
	status.IsPending = !edge.IsAccepted
	return status, nil
}

// PendingRequests lists the requests waiting on targetID, newest first
func (s *GraphService) PendingRequests(ctx context.Context, targetID uint) ([]models.Follow, error) {
	return s.follows.GetPendingRequests(ctx, targetID)
}

// Followers lists the accepted followers of userID
func (s *GraphService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.lookupUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.GetFollowers(ctx, userID)
}

// Following lists the users userID follows through accepted edges
func (s *GraphService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.lookupUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.GetFollowing(ctx, userID)
}

// PurgeEdges deletes every edge touching userID. Accounts cannot be
// deleted while edges reference them.
func (s *GraphService) PurgeEdges(ctx context.Context, userID uint) (int64, error) {
	n, err := s.follows.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("purge edges of %d: %w", userID, err)
	}
	s.logger.Info("Purged follow edges", zap.Uint("user_id", userID), zap.Int64("edges", n))
	return n, nil
}
