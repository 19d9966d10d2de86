package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is an artwork entry stored in MongoDB
type Post struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID            uint               `json:"author_id" bson:"author_id"`
	ThemeID             uint               `json:"theme_id" bson:"theme_id"`
	Description         string             `json:"description" bson:"description"`
	ImageURL            string             `json:"image_url" bson:"image_url"`
	ProofOfWorkVideoURL string             `json:"proof_of_work_video_url,omitempty" bson:"proof_of_work_video_url,omitempty"`
	LikesCount          int                `json:"likes_count" bson:"likes_count"`
	CommentsCount       int                `json:"comments_count" bson:"comments_count"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Description         string `json:"description" validate:"required,min=1,max=1000"`
	ImageURL            string `json:"image_url" validate:"required,url"`
	ProofOfWorkVideoURL string `json:"proof_of_work_video_url,omitempty" validate:"omitempty,url"`
	ThemeID             uint   `json:"theme_id" validate:"required"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Description         string `json:"description,omitempty" validate:"omitempty,min=1,max=1000"`
	ImageURL            string `json:"image_url,omitempty" validate:"omitempty,url"`
	ProofOfWorkVideoURL string `json:"proof_of_work_video_url,omitempty" validate:"omitempty,url"`
	ThemeID             uint   `json:"theme_id,omitempty"`
}
