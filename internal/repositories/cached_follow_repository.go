package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/clashart/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedFollowRepository decorates a FollowRepository with a Redis cache of
// each user's following set. Every mutation drops the follower's entry.
// A cache failure never fails the call; the store answers instead.
type CachedFollowRepository struct {
	FollowRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedFollowRepository wraps next with a Redis-backed following-set cache
func NewCachedFollowRepository(next FollowRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedFollowRepository {
	return &CachedFollowRepository{
		FollowRepository: next,
		client:           client,
		ttl:              ttl,
		logger:           logger,
	}
}

// FollowingKey is the Redis key holding userID's following set
func FollowingKey(userID uint) string {
	return fmt.Sprintf("graph:following:%d", userID)
}

func (r *CachedFollowRepository) GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	key := FollowingKey(userID)

	cached, err := r.client.HGet(ctx, key, "data").Result()
	switch {
	case err == nil:
		var ids []uint
		if jsonErr := json.Unmarshal([]byte(cached), &ids); jsonErr == nil {
			return ids, nil
		}
		r.logger.Warn("Discarding corrupt following cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("Following cache read failed", zap.String("key", key), zap.Error(err))
	}

	ids, err := r.FollowRepository.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint{}
	}
	r.store(ctx, key, ids)
	return ids, nil
}

func (r *CachedFollowRepository) store(ctx context.Context, key string, ids []uint) {
	data, err := json.Marshal(ids)
	if err != nil {
		return
	}
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"data":      string(data),
		"cached_at": time.Now().Unix(),
	})
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("Following cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *CachedFollowRepository) invalidate(ctx context.Context, userIDs ...uint) {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, FollowingKey(id))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn("Following cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (r *CachedFollowRepository) CreateFollowIfAbsent(ctx context.Context, follow *models.Follow) (bool, error) {
	created, err := r.FollowRepository.CreateFollowIfAbsent(ctx, follow)
	if err == nil && created {
		r.invalidate(ctx, follow.FollowerID)
	}
	return created, err
}

func (r *CachedFollowRepository) DeleteFollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	deleted, err := r.FollowRepository.DeleteFollow(ctx, followerID, followedID)
	if err == nil && deleted {
		r.invalidate(ctx, followerID)
	}
	return deleted, err
}

func (r *CachedFollowRepository) DeletePendingFollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	// pending edges are never part of a following set
	return r.FollowRepository.DeletePendingFollow(ctx, followerID, followedID)
}

func (r *CachedFollowRepository) DeleteAcceptedFollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	deleted, err := r.FollowRepository.DeleteAcceptedFollow(ctx, followerID, followedID)
	if err == nil && deleted {
		r.invalidate(ctx, followerID)
	}
	return deleted, err
}

func (r *CachedFollowRepository) AcceptFollow(ctx context.Context, followerID, followedID uint, at time.Time) (bool, error) {
	accepted, err := r.FollowRepository.AcceptFollow(ctx, followerID, followedID, at)
	if err == nil && accepted {
		r.invalidate(ctx, followerID)
	}
	return accepted, err
}

// DeleteAllForUser drops the user's own entry and that of everyone who followed them
func (r *CachedFollowRepository) DeleteAllForUser(ctx context.Context, userID uint) (int64, error) {
	followers, err := r.FollowRepository.GetFollowers(ctx, userID)
	if err != nil {
		return 0, err
	}
	n, err := r.FollowRepository.DeleteAllForUser(ctx, userID)
	if err != nil {
		return n, err
	}
	ids := []uint{userID}
	for _, f := range followers {
		ids = append(ids, f.ID)
	}
	r.invalidate(ctx, ids...)
	return n, nil
}
