package repositories

import (
	"context"
	"time"

	"github.com/clashart/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow edge storage
type FollowRepository interface {
	// CreateFollowIfAbsent inserts follow unless an edge for the pair
	// already exists. It reports whether a row was inserted.
	CreateFollowIfAbsent(ctx context.Context, follow *models.Follow) (bool, error)
	GetFollow(ctx context.Context, followerID, followedID uint) (*models.Follow, error)
	DeleteFollow(ctx context.Context, followerID, followedID uint) (bool, error)
	DeletePendingFollow(ctx context.Context, followerID, followedID uint) (bool, error)
	DeleteAcceptedFollow(ctx context.Context, followerID, followedID uint) (bool, error)
	AcceptFollow(ctx context.Context, followerID, followedID uint, at time.Time) (bool, error)
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	GetFollowers(ctx context.Context, userID uint) ([]models.User, error)
	GetFollowing(ctx context.Context, userID uint) ([]models.User, error)
	GetPendingRequests(ctx context.Context, userID uint) ([]models.Follow, error)
	GetFollowersCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint) (int64, error)
	DeleteAllForUser(ctx context.Context, userID uint) (int64, error)
}

// PostgresFollowRepository implements FollowRepository on top of gorm
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollowIfAbsent(ctx context.Context, follow *models.Follow) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "followed_id"}},
			DoNothing: true,
		}).
		Create(follow)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresFollowRepository) GetFollow(ctx context.Context, followerID, followedID uint) (*models.Follow, error) {
	var follow models.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		First(&follow).Error
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *PostgresFollowRepository) DeleteFollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	return res.RowsAffected > 0, res.Error
}

func (r *PostgresFollowRepository) DeletePendingFollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ? AND is_accepted = ?", followerID, followedID, false).
		Delete(&models.Follow{})
	return res.RowsAffected > 0, res.Error
}

func (r *PostgresFollowRepository) DeleteAcceptedFollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ? AND is_accepted = ?", followerID, followedID, true).
		Delete(&models.Follow{})
	return res.RowsAffected > 0, res.Error
}

// AcceptFollow flips a pending edge to accepted and stamps it with at.
// It reports false when there was no pending edge for the pair.
func (r *PostgresFollowRepository) AcceptFollow(ctx context.Context, followerID, followedID uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ? AND is_accepted = ?", followerID, followedID, false).
		Updates(map[string]interface{}{"is_accepted": true, "created_at": at})
	return res.RowsAffected > 0, res.Error
}

// IsFollowing reports whether an accepted edge exists from follower to followed
func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ? AND is_accepted = ?", followerID, followedID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND is_accepted = ?", userID, true).
		Order("followed_id").
		Pluck("followed_id", &ids).Error
	return ids, err
}

func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("id IN (?)",
		r.db.Model(&models.Follow{}).Select("follower_id").Where("followed_id = ? AND is_accepted = ?", userID, true),
	).Order("id").Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) GetFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("id IN (?)",
		r.db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ? AND is_accepted = ?", userID, true),
	).Order("id").Find(&users).Error
	return users, err
}

// GetPendingRequests returns pending edges toward userID, newest first,
// with the requesting user preloaded.
func (r *PostgresFollowRepository) GetPendingRequests(ctx context.Context, userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.WithContext(ctx).
		Preload("Follower").
		Where("followed_id = ? AND is_accepted = ?", userID, false).
		Order("created_at DESC").Order("id DESC").
		Find(&follows).Error
	return follows, err
}

func (r *PostgresFollowRepository) GetFollowersCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followed_id = ? AND is_accepted = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND is_accepted = ?", userID, true).
		Count(&count).Error
	return count, err
}

// DeleteAllForUser removes every edge touching userID in either direction
func (r *PostgresFollowRepository) DeleteAllForUser(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? OR followed_id = ?", userID, userID).
		Delete(&models.Follow{})
	return res.RowsAffected, res.Error
}
