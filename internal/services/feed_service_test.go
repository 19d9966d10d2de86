package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestParseSortMode(t *testing.T) {
	mode, err := services.ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, services.SortNewest, mode)

	mode, err = services.ParseSortMode("Trending")
	require.NoError(t, err)
	assert.Equal(t, services.SortTrending, mode)

	_, err = services.ParseSortMode("oldest")
	assert.ErrorIs(t, err, services.ErrInvalidOperation)
}

func TestTrendingBreaksLikeTiesByRecency(t *testing.T) {
	e := newEnv(t, nil)
	author := e.user(t, "painter", false)
	p1 := e.post(t, author, 5, t0.Add(10*time.Second))
	p2 := e.post(t, author, 5, t0.Add(20*time.Second))
	p3 := e.post(t, author, 3, t0.Add(30*time.Second))

	got, err := e.feed.ComposeFeed(context.Background(), services.FeedRequest{Sort: services.SortTrending})
	require.NoError(t, err)
	assert.Equal(t, postIDs([]models.Post{p2, p1, p3}), postIDs(got))
}

func TestFollowingFeedForAnonymousIsEmpty(t *testing.T) {
	e := newEnv(t, nil)
	author := e.user(t, "painter", false)
	e.post(t, author, 0, t0)

	got, err := e.feed.ComposeFeed(context.Background(), services.FeedRequest{Sort: services.SortFollowing})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFollowingFeedOnlyShowsAcceptedFollows(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	viewer := e.user(t, "viewer", false)
	followed := e.user(t, "followed", true)
	pending := e.user(t, "pending", true)
	stranger := e.user(t, "stranger", false)

	_, err := e.graph.RequestFollow(ctx, viewer.ID, followed.ID)
	require.NoError(t, err)
	require.NoError(t, e.graph.AcceptRequest(ctx, followed.ID, viewer.ID))
	_, err = e.graph.RequestFollow(ctx, viewer.ID, pending.ID)
	require.NoError(t, err)

	pf := e.post(t, followed, 0, t0)
	e.post(t, pending, 0, t0.Add(time.Minute))
	e.post(t, stranger, 0, t0.Add(2*time.Minute))

	got, err := e.feed.ComposeFeed(ctx, services.FeedRequest{Viewer: viewerOf(viewer), Sort: services.SortFollowing})
	require.NoError(t, err)
	assert.Equal(t, postIDs([]models.Post{pf}), postIDs(got))

	loner := e.user(t, "loner", false)
	got, err = e.feed.ComposeFeed(ctx, services.FeedRequest{Viewer: viewerOf(loner), Sort: services.SortFollowing})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewestFeedHidesPrivateAuthorsFromNonFollowers(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	pub := e.user(t, "pub", false)
	priv := e.user(t, "priv", true)
	viewer := e.user(t, "viewer", false)
	root := e.admin(t, "root")

	pPub := e.post(t, pub, 0, t0)
	pPriv := e.post(t, priv, 0, t0.Add(time.Minute))

	got, err := e.feed.ComposeFeed(ctx, services.FeedRequest{Viewer: viewerOf(viewer)})
	require.NoError(t, err)
	assert.Equal(t, postIDs([]models.Post{pPub}), postIDs(got))

	got, err = e.feed.ComposeFeed(ctx, services.FeedRequest{Viewer: services.Anonymous, Sort: services.SortNewest})
	require.NoError(t, err)
	assert.Equal(t, postIDs([]models.Post{pPub}), postIDs(got))

	got, err = e.feed.ComposeFeed(ctx, services.FeedRequest{Viewer: viewerOf(root), Sort: services.SortNewest})
	require.NoError(t, err)
	assert.Equal(t, postIDs([]models.Post{pPriv, pPub}), postIDs(got))

	got, err = e.feed.ComposeFeed(ctx, services.FeedRequest{Viewer: viewerOf(priv), Sort: services.SortNewest})
	require.NoError(t, err)
	assert.Equal(t, postIDs([]models.Post{pPriv, pPub}), postIDs(got), "own posts stay visible")

	_, err = e.graph.RequestFollow(ctx, viewer.ID, priv.ID)
	require.NoError(t, err)
	require.NoError(t, e.graph.AcceptRequest(ctx, priv.ID, viewer.ID))
	got, err = e.feed.ComposeFeed(ctx, services.FeedRequest{Viewer: viewerOf(viewer), Sort: services.SortNewest})
	require.NoError(t, err)
	assert.Equal(t, postIDs([]models.Post{pPriv, pPub}), postIDs(got))
}

func TestFeedPaginationAndThemeFilter(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	author := e.user(t, "painter", false)
	var all []models.Post
	for i := 0; i < 5; i++ {
		all = append(all, e.post(t, author, 0, t0.Add(time.Duration(i)*time.Minute)))
	}

	got, err := e.feed.ComposeFeed(ctx, services.FeedRequest{Skip: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, postIDs([]models.Post{all[3], all[2]}), postIDs(got))

	got, err = e.feed.ComposeFeed(ctx, services.FeedRequest{ThemeID: e.freestyle.ID + 1})
	require.NoError(t, err)
	assert.Empty(t, got)

	items, err := e.feed.WithAuthors(ctx, got)
	require.NoError(t, err)
	assert.Empty(t, items)

	got, err = e.feed.ComposeFeed(ctx, services.FeedRequest{Limit: 1})
	require.NoError(t, err)
	items, err = e.feed.WithAuthors(ctx, got)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Author)
	assert.Equal(t, "painter", items[0].Author.DisplayName)
}
