package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/clashart/backend/internal/dbtest"
	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/moderation"
	"github.com/clashart/backend/internal/repositories"
	"github.com/clashart/backend/internal/services"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type env struct {
	db            *gorm.DB
	postRepo      *repositories.MemoryPostRepository
	graph         *services.GraphService
	feed          *services.FeedService
	posts         *services.PostService
	likes         *services.LikeService
	comments      *services.CommentService
	themes        *services.ThemeService
	profiles      *services.ProfileService
	notifications *services.NotificationService
	freestyle     *models.CompetitionTheme
}

func newEnv(t *testing.T, mod moderation.Moderator) *env {
	t.Helper()
	if mod == nil {
		mod = moderation.NewWordList(moderation.DefaultBlockedWords)
	}
	logger := zap.NewNop()
	db := dbtest.Open(t)

	users := repositories.NewPostgresUserRepository(db)
	follows := repositories.NewPostgresFollowRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	postRepo := repositories.NewMemoryPostRepository()

	e := &env{db: db, postRepo: postRepo}
	e.notifications = services.NewNotificationService(notificationRepo, logger)
	e.graph = services.NewGraphService(follows, users, e.notifications, logger)
	e.feed = services.NewFeedService(e.graph, users, postRepo, logger)
	e.themes = services.NewThemeService(repositories.NewPostgresThemeRepository(db))
	e.posts = services.NewPostService(postRepo, likeRepo, commentRepo, users, e.graph, e.themes, mod, logger)
	e.likes = services.NewLikeService(likeRepo, e.posts, postRepo, e.notifications, logger)
	e.comments = services.NewCommentService(commentRepo, e.posts, postRepo, mod, e.notifications, logger)
	e.profiles = services.NewProfileService(users, e.graph, e.posts, postRepo, likeRepo, commentRepo, notificationRepo, logger)

	var err error
	e.freestyle, err = e.themes.EnsureFreestyle(context.Background())
	require.NoError(t, err)
	return e
}

func (e *env) user(t *testing.T, name string, private bool) *models.User {
	return dbtest.CreateUser(t, e.db, name, private, "")
}

func (e *env) admin(t *testing.T, name string) *models.User {
	return dbtest.CreateUser(t, e.db, name, false, models.RoleAdmin)
}

// post stores a post directly so tests control likes and timestamps
func (e *env) post(t *testing.T, author *models.User, likes int, at time.Time) models.Post {
	t.Helper()
	p := &models.Post{
		AuthorID:   author.ID,
		ThemeID:    e.freestyle.ID,
		ImageURL:   "https://cdn.clashart.test/a.png",
		LikesCount: likes,
		CreatedAt:  at,
	}
	require.NoError(t, e.postRepo.CreatePost(context.Background(), p))
	return *p
}

func viewerOf(u *models.User) services.Viewer {
	return services.ViewerFromUser(u)
}

func postIDs(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID.Hex())
	}
	return out
}
