package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/repositories"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedPost(t *testing.T, repo repositories.PostRepository, author uint, likes int, at time.Time) models.Post {
	t.Helper()
	p := &models.Post{AuthorID: author, ThemeID: 1, ImageURL: "https://img.test/x.png", LikesCount: likes, CreatedAt: at}
	require.NoError(t, repo.CreatePost(context.Background(), p))
	return *p
}

func ids(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID.Hex())
	}
	return out
}

func TestMemoryPostRepositoryTrendingOrder(t *testing.T) {
	repo := repositories.NewMemoryPostRepository()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p1 := seedPost(t, repo, 1, 5, base.Add(10*time.Second))
	p2 := seedPost(t, repo, 1, 5, base.Add(20*time.Second))
	p3 := seedPost(t, repo, 2, 3, base.Add(30*time.Second))

	got, err := repo.FindPosts(context.Background(), repositories.PostQuery{Sort: repositories.PostSortTrending})
	require.NoError(t, err)
	assert.Equal(t, ids([]models.Post{p2, p1, p3}), ids(got))

	got, err = repo.FindPosts(context.Background(), repositories.PostQuery{Sort: repositories.PostSortNewest})
	require.NoError(t, err)
	assert.Equal(t, ids([]models.Post{p3, p2, p1}), ids(got))
}

func TestMemoryPostRepositoryFilters(t *testing.T) {
	repo := repositories.NewMemoryPostRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p1 := seedPost(t, repo, 1, 0, base)
	p2 := seedPost(t, repo, 2, 0, base.Add(time.Minute))
	seedPost(t, repo, 3, 0, base.Add(2*time.Minute))

	got, err := repo.FindPosts(ctx, repositories.PostQuery{AuthorNotIn: []uint{3}})
	require.NoError(t, err)
	assert.Equal(t, ids([]models.Post{p2, p1}), ids(got))

	got, err = repo.FindPosts(ctx, repositories.PostQuery{AuthorIn: []uint{1}})
	require.NoError(t, err)
	assert.Equal(t, ids([]models.Post{p1}), ids(got))

	got, err = repo.FindPosts(ctx, repositories.PostQuery{Skip: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, ids([]models.Post{p2}), ids(got))

	got, err = repo.FindPosts(ctx, repositories.PostQuery{Skip: 10})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryPostRepositoryCounters(t *testing.T) {
	repo := repositories.NewMemoryPostRepository()
	ctx := context.Background()
	p := seedPost(t, repo, 1, 0, time.Now())

	require.NoError(t, repo.DecrementLikesCount(ctx, p.ID.Hex()))
	require.NoError(t, repo.IncrementLikesCount(ctx, p.ID.Hex()))
	require.NoError(t, repo.IncrementCommentsCount(ctx, p.ID.Hex()))

	got, err := repo.GetPostByID(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.Equal(t, 1, got.CommentsCount)

	removed, err := repo.DeletePostsByAuthor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID.Hex()}, removed)

	_, err = repo.GetPostByID(ctx, p.ID.Hex())
	assert.ErrorIs(t, err, repositories.ErrPostNotFound)
}

func TestMemoryPostRepositoryUpdateKeepsCounters(t *testing.T) {
	repo := repositories.NewMemoryPostRepository()
	ctx := context.Background()
	stored := seedPost(t, repo, 1, 4, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	edit := stored
	edit.Description = "reworked"
	edit.LikesCount = 0
	require.NoError(t, repo.UpdatePost(ctx, &edit))

	got, err := repo.GetPostByID(ctx, stored.ID.Hex())
	require.NoError(t, err)
	want := stored
	want.Description = "reworked"
	if diff := cmp.Diff(want, *got, cmpopts.IgnoreFields(models.Post{}, "UpdatedAt")); diff != "" {
		t.Errorf("post mismatch (-want +got):\n%s", diff)
	}

	missing := models.Post{ID: primitive.NewObjectID()}
	assert.ErrorIs(t, repo.UpdatePost(ctx, &missing), repositories.ErrPostNotFound)
}
