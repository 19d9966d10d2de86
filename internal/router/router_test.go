package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clashart/backend/internal/dbtest"
	"github.com/clashart/backend/internal/middleware"
	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/moderation"
	"github.com/clashart/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "router-test-secret"

type testAPI struct {
	e  *echo.Echo
	db *gorm.DB
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := dbtest.Open(t)
	e := echo.New()
	e.Validator = validators.NewValidator()
	require.NoError(t, SetupRoutes(context.Background(), e, Dependencies{
		SQL:       db,
		JWTSecret: testSecret,
		JWTTTL:    time.Hour,
		Moderator: moderation.NewWordList(moderation.DefaultBlockedWords),
		Logger:    zap.NewNop(),
	}))
	return &testAPI{e: e, db: db}
}

func (a *testAPI) user(t *testing.T, name string, private bool) *models.User {
	return dbtest.CreateUser(t, a.db, name, private, models.RoleUser)
}

func (a *testAPI) admin(t *testing.T, name string) *models.User {
	return dbtest.CreateUser(t, a.db, name, false, models.RoleAdmin)
}

func token(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := middleware.GenerateToken(testSecret, time.Hour, u)
	require.NoError(t, err)
	return tok
}

// do sends a request as u; a nil u is anonymous
func (a *testAPI) do(t *testing.T, method, path string, u *models.User, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if u != nil {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, u))
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.True(t, env.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func (a *testAPI) freestyleID(t *testing.T) uint {
	t.Helper()
	rec := a.do(t, http.MethodGet, "/api/v1/themes", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Themes []models.CompetitionTheme `json:"themes"`
	}
	decode(t, rec, &data)
	for _, th := range data.Themes {
		if th.IsFreestyle() {
			return th.ID
		}
	}
	t.Fatal("freestyle theme missing")
	return 0
}

func (a *testAPI) createPost(t *testing.T, u *models.User, description string) models.Post {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/posts", u, models.CreatePostRequest{
		Description: description,
		ImageURL:    "https://picsum.photos/id/1/600/400",
		ThemeID:     a.freestyleID(t),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post models.Post
	decode(t, rec, &post)
	return post
}

type feedPost struct {
	ID         string              `json:"id"`
	AuthorID   uint                `json:"author_id"`
	LikesCount int                 `json:"likes_count"`
	IsLiked    bool                `json:"is_liked"`
	Author     *models.UserCompact `json:"author"`
}

func (a *testAPI) feed(t *testing.T, u *models.User, query string) []feedPost {
	t.Helper()
	rec := a.do(t, http.MethodGet, "/api/v1/feed"+query, u, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var data struct {
		Posts []feedPost `json:"posts"`
	}
	decode(t, rec, &data)
	return data.Posts
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignupAndSignIn(t *testing.T) {
	api := newTestAPI(t)
	signup := models.CreateLocalUserRequest{DisplayName: "Vlad", Email: "Vlad@Example.com", Password: "correct-horse"}

	rec := api.do(t, http.MethodPost, "/api/v1/auth/signup", nil, signup)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decode(t, rec, &created)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "vlad@example.com", created.User.Email)

	rec = api.do(t, http.MethodPost, "/api/v1/auth/signup", nil, signup)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/auth/signup", nil, models.CreateLocalUserRequest{DisplayName: "Ana", Email: "ana@example.com", Password: "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/auth/signin", nil, models.SignInRequest{Email: "vlad@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/auth/signin", nil, models.SignInRequest{Email: "vlad@example.com", Password: "correct-horse"})
	require.Equal(t, http.StatusOK, rec.Code)

	var signedIn struct {
		Token string `json:"token"`
	}
	decode(t, rec, &signedIn)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signedIn.Token)
	out := httptest.NewRecorder()
	api.e.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
}

func TestAuthenticationBoundaries(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/posts", nil, models.CreatePostRequest{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	out := httptest.NewRecorder()
	api.e.ServeHTTP(out, req)
	assert.Equal(t, http.StatusUnauthorized, out.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/feed", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPrivateFollowFlow(t *testing.T) {
	api := newTestAPI(t)
	alice := api.user(t, "alice", false)
	bob := api.user(t, "bob", true)
	bobFollowers := fmt.Sprintf("/api/v1/users/%d/followers", bob.ID)

	rec := api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", bob.ID), alice, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var relation models.RelationStatus
	decode(t, rec, &relation)
	assert.Equal(t, models.RelationStatus{IsPending: true}, relation)

	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodGet, bobFollowers, alice, nil).Code)

	rec = api.do(t, http.MethodGet, "/api/v1/follow-requests", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending struct {
		Requests []struct {
			Follower models.UserCompact `json:"follower"`
		} `json:"requests"`
	}
	decode(t, rec, &pending)
	require.Len(t, pending.Requests, 1)
	assert.Equal(t, alice.ID, pending.Requests[0].Follower.ID)

	accept := fmt.Sprintf("/api/v1/follow-requests/%d/accept", alice.ID)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, accept, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPost, accept, bob, nil).Code)

	rec = api.do(t, http.MethodGet, bobFollowers, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var followers struct {
		Users []models.UserCompact `json:"users"`
	}
	decode(t, rec, &followers)
	require.Len(t, followers.Users, 1)
	assert.Equal(t, alice.ID, followers.Users[0].ID)

	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodGet, bobFollowers, nil, nil).Code)

	self := fmt.Sprintf("/api/v1/users/%d/follow", alice.ID)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodPost, self, alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodPost, "/api/v1/users/9999/follow", alice, nil).Code)
}

func TestFeedVisibilityAndLikes(t *testing.T) {
	api := newTestAPI(t)
	alice := api.user(t, "alice", false)
	bob := api.user(t, "bob", true)
	carol := api.user(t, "carol", false)
	root := api.admin(t, "root")

	alicePost := api.createPost(t, alice, "Neon skyline")
	bobPost := api.createPost(t, bob, "Private sketch")

	ids := func(posts []feedPost) []string {
		out := make([]string, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{alicePost.ID.Hex()}, ids(api.feed(t, nil, "")))
	assert.Equal(t, []string{alicePost.ID.Hex()}, ids(api.feed(t, carol, "?sort=newest")))
	assert.ElementsMatch(t, []string{alicePost.ID.Hex(), bobPost.ID.Hex()}, ids(api.feed(t, root, "")))
	assert.ElementsMatch(t, []string{alicePost.ID.Hex(), bobPost.ID.Hex()}, ids(api.feed(t, bob, "")))
	assert.Empty(t, api.feed(t, nil, "?sort=following"))
	assert.Empty(t, api.feed(t, carol, "?sort=following"))

	rec := api.do(t, http.MethodGet, "/api/v1/feed?sort=hottest", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/posts/"+alicePost.ID.Hex()+"/like", carol, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var state struct {
		Liked      bool `json:"liked"`
		LikesCount int  `json:"likes_count"`
	}
	decode(t, rec, &state)
	assert.True(t, state.Liked)
	assert.Equal(t, 1, state.LikesCount)

	feed := api.feed(t, carol, "?sort=trending")
	require.Len(t, feed, 1)
	assert.True(t, feed[0].IsLiked)
	assert.Equal(t, 1, feed[0].LikesCount)
	require.NotNil(t, feed[0].Author)
	assert.Equal(t, "alice", feed[0].Author.DisplayName)

	rec = api.do(t, http.MethodPost, "/api/v1/posts/"+bobPost.ID.Hex()+"/like", carol, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", alice.ID), carol, nil).Code)
	assert.Equal(t, []string{alicePost.ID.Hex()}, ids(api.feed(t, carol, "?sort=following")))
}

func TestPostLifecycle(t *testing.T) {
	api := newTestAPI(t)
	alice := api.user(t, "alice", false)
	bob := api.user(t, "bob", false)
	root := api.admin(t, "root")

	post := api.createPost(t, alice, "Work in progress")
	path := "/api/v1/posts/" + post.ID.Hex()

	rec := api.do(t, http.MethodPut, path, bob, models.UpdatePostRequest{Description: "hijacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPut, path, alice, models.UpdatePostRequest{Description: "Finished piece"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got feedPost
	decode(t, rec, &got)
	assert.Equal(t, post.ID.Hex(), got.ID)

	rec = api.do(t, http.MethodPost, "/api/v1/posts", alice, models.CreatePostRequest{
		Description: "you idiot",
		ImageURL:    "https://picsum.photos/id/2/600/400",
		ThemeID:     api.freestyleID(t),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodDelete, path, bob, nil).Code)
	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, path, root, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, path, nil, nil).Code)
}

func TestCommentsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	alice := api.user(t, "alice", false)
	bob := api.user(t, "bob", false)
	post := api.createPost(t, alice, "Critique welcome")
	comments := "/api/v1/posts/" + post.ID.Hex() + "/comments"

	rec := api.do(t, http.MethodPost, comments, bob, models.CreateCommentRequest{Content: "what an idiot"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(t, http.MethodPost, comments, bob, models.CreateCommentRequest{Content: "Love the palette"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var comment models.Comment
	decode(t, rec, &comment)

	rec = api.do(t, http.MethodGet, comments, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Comments []struct {
			ID      uint               `json:"id"`
			Content string             `json:"content"`
			Author  models.UserCompact `json:"author"`
		} `json:"comments"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Comments, 1)
	assert.Equal(t, "Love the palette", list.Comments[0].Content)
	assert.Equal(t, bob.ID, list.Comments[0].Author.ID)

	path := fmt.Sprintf("/api/v1/comments/%d", comment.ID)
	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodDelete, path, alice, nil).Code)
	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, path, bob, nil).Code)
}

func TestThemesRequireAdmin(t *testing.T) {
	api := newTestAPI(t)
	alice := api.user(t, "alice", false)
	root := api.admin(t, "root")
	now := time.Now().UTC()
	req := models.CreateThemeRequest{
		Title:     "Cyberpunk Noir",
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(48 * time.Hour),
	}

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/v1/themes/active", nil, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodPost, "/api/v1/themes", alice, req).Code)
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/v1/themes", root, req).Code)

	rec := api.do(t, http.MethodGet, "/api/v1/themes/active", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var active models.CompetitionTheme
	decode(t, rec, &active)
	assert.Equal(t, "Cyberpunk Noir", active.Title)
}

func TestNotificationsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	alice := api.user(t, "alice", false)
	bob := api.user(t, "bob", false)

	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", alice.ID), bob, nil).Code)

	rec := api.do(t, http.MethodGet, "/api/v1/notifications", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Notifications []struct {
			Type  string              `json:"type"`
			Actor *models.UserCompact `json:"actor"`
		} `json:"notifications"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, models.NotificationFollow, list.Notifications[0].Type)
	require.NotNil(t, list.Notifications[0].Actor)
	assert.Equal(t, "bob", list.Notifications[0].Actor.DisplayName)

	unread := func() int64 {
		rec := api.do(t, http.MethodGet, "/api/v1/notifications/unread-count", alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var out struct {
			Count int64 `json:"count"`
		}
		decode(t, rec, &out)
		return out.Count
	}
	assert.Equal(t, int64(1), unread())
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPut, "/api/v1/notifications/read-all", alice, nil).Code)
	assert.Equal(t, int64(0), unread())
}

func TestDeleteAccountOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	alice := api.user(t, "alice", false)
	bob := api.user(t, "bob", false)
	api.createPost(t, alice, "Farewell piece")
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", alice.ID), bob, nil).Code)

	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/api/v1/profile", alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", alice.ID), nil, nil).Code)
	assert.Empty(t, api.feed(t, bob, ""))
}
