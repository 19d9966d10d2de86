package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/clashart/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryPostRepository is a process-local PostRepository used when no
// MongoDB is configured and in tests.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[primitive.ObjectID]models.Post
}

// NewMemoryPostRepository creates an empty MemoryPostRepository
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{posts: make(map[primitive.ObjectID]models.Post)}
}

func (r *MemoryPostRepository) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	post.UpdatedAt = post.CreatedAt

	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID] = *post
	return nil
}

func (r *MemoryPostRepository) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	post, ok := r.posts[objID]
	if !ok {
		return nil, ErrPostNotFound
	}
	return &post, nil
}

func (r *MemoryPostRepository) FindPosts(_ context.Context, q PostQuery) ([]models.Post, error) {
	in := toSet(q.AuthorIn)
	notIn := toSet(q.AuthorNotIn)

	r.mu.RLock()
	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if len(in) > 0 {
			if _, ok := in[p.AuthorID]; !ok {
				continue
			}
		}
		if _, hidden := notIn[p.AuthorID]; hidden {
			continue
		}
		if q.ThemeID != 0 && p.ThemeID != q.ThemeID {
			continue
		}
		posts = append(posts, p)
	}
	r.mu.RUnlock()

	SortPosts(posts, q.Sort)

	if q.Skip >= int64(len(posts)) {
		return []models.Post{}, nil
	}
	posts = posts[q.Skip:]
	if q.Limit > 0 && q.Limit < int64(len(posts)) {
		posts = posts[:q.Limit]
	}
	return posts, nil
}

func (r *MemoryPostRepository) CountPosts(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.posts)), nil
}

func (r *MemoryPostRepository) UpdatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[post.ID]
	if !ok {
		return ErrPostNotFound
	}
	post.UpdatedAt = time.Now().UTC()
	stored.Description = post.Description
	stored.ImageURL = post.ImageURL
	stored.ProofOfWorkVideoURL = post.ProofOfWorkVideoURL
	stored.ThemeID = post.ThemeID
	stored.UpdatedAt = post.UpdatedAt
	r.posts[post.ID] = stored
	return nil
}

func (r *MemoryPostRepository) DeletePost(_ context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[objID]; !ok {
		return ErrPostNotFound
	}
	delete(r.posts, objID)
	return nil
}

func (r *MemoryPostRepository) DeletePostsByAuthor(_ context.Context, authorID uint) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []string{}
	for id, p := range r.posts {
		if p.AuthorID == authorID {
			ids = append(ids, id.Hex())
			delete(r.posts, id)
		}
	}
	return ids, nil
}

func (r *MemoryPostRepository) adjust(postID string, apply func(p *models.Post)) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return ErrPostNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[objID]
	if !ok {
		return nil
	}
	apply(&p)
	r.posts[objID] = p
	return nil
}

func (r *MemoryPostRepository) IncrementLikesCount(_ context.Context, postID string) error {
	return r.adjust(postID, func(p *models.Post) { p.LikesCount++ })
}

func (r *MemoryPostRepository) DecrementLikesCount(_ context.Context, postID string) error {
	return r.adjust(postID, func(p *models.Post) {
		if p.LikesCount > 0 {
			p.LikesCount--
		}
	})
}

func (r *MemoryPostRepository) IncrementCommentsCount(_ context.Context, postID string) error {
	return r.adjust(postID, func(p *models.Post) { p.CommentsCount++ })
}

func (r *MemoryPostRepository) DecrementCommentsCount(_ context.Context, postID string) error {
	return r.adjust(postID, func(p *models.Post) {
		if p.CommentsCount > 0 {
			p.CommentsCount--
		}
	})
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
