package models

import "time"

// Follow is a directed follow edge. A pending edge (IsAccepted=false) only
// exists toward private accounts until the target accepts it.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"not null;uniqueIndex:idx_follower_followed;check:chk_follows_not_self,follower_id <> followed_id"`
	FollowedID uint      `json:"followed_id" gorm:"not null;uniqueIndex:idx_follower_followed;index"`
	IsAccepted bool      `json:"is_accepted" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`

	Follower *User `json:"follower,omitempty" gorm:"foreignKey:FollowerID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Followed *User `json:"followed,omitempty" gorm:"foreignKey:FollowedID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

// RelationStatus describes the viewer's edge toward another user
type RelationStatus struct {
	IsFollowing bool `json:"is_following"`
	IsPending   bool `json:"is_pending"`
}
