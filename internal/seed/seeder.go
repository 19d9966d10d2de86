// Package seed fills an empty installation with demo content.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Demo account credentials
const (
	DemoEmail    = "demo_artist@clashart.com"
	DemoPassword = "ParolaSigura123!"
	CyberTitle   = "Cyberpunk Noir"
)

// Seeder creates the demo artist, the default themes and a few posts
type Seeder struct {
	users  repositories.UserRepository
	themes repositories.ThemeRepository
	posts  repositories.PostRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewSeeder creates a new Seeder
func NewSeeder(users repositories.UserRepository, themes repositories.ThemeRepository, posts repositories.PostRepository, logger *zap.Logger) *Seeder {
	return &Seeder{users: users, themes: themes, posts: posts, logger: logger, now: time.Now}
}

// Run seeds demo data unless posts already exist. It reports whether it wrote anything.
func (s *Seeder) Run(ctx context.Context) (bool, error) {
	count, err := s.posts.CountPosts(ctx)
	if err != nil {
		return false, fmt.Errorf("count posts: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	artist, err := s.demoArtist(ctx)
	if err != nil {
		return false, err
	}

	now := s.now().UTC()
	freestyle, err := s.theme(ctx, &models.CompetitionTheme{
		Title:       models.FreestyleThemeTitle,
		Description: "General posts, no competition rules.",
		StartDate:   now.AddDate(-1, 0, 0),
		EndDate:     now.AddDate(5, 0, 0),
	})
	if err != nil {
		return false, err
	}
	cyber, err := s.theme(ctx, &models.CompetitionTheme{
		Title:       CyberTitle,
		Description: "Neon, rain and technology.",
		StartDate:   now.AddDate(0, 0, -2),
		EndDate:     now.AddDate(0, 0, 5),
	})
	if err != nil {
		return false, err
	}

	posts := []models.Post{
		{
			Description: "My first digital piece!",
			ImageURL:    "https://picsum.photos/id/237/600/400",
			ThemeID:     freestyle.ID,
			CreatedAt:   now.Add(-5 * time.Hour),
		},
		{
			Description: "Entry for the Cyberpunk contest. Hope you like it!",
			ImageURL:    "https://picsum.photos/id/238/600/800",
			ThemeID:     cyber.ID,
			CreatedAt:   now.Add(-2 * time.Hour),
		},
		{
			Description: "A quick evening sketch.",
			ImageURL:    "https://picsum.photos/id/239/600/600",
			ThemeID:     freestyle.ID,
			CreatedAt:   now.Add(-30 * time.Minute),
		},
	}
	for i := range posts {
		posts[i].AuthorID = artist.ID
		if err := s.posts.CreatePost(ctx, &posts[i]); err != nil {
			return false, fmt.Errorf("create demo post: %w", err)
		}
	}

	s.logger.Info("Seeded demo data",
		zap.Uint("artist_id", artist.ID),
		zap.Int("posts", len(posts)),
	)
	return true, nil
}

func (s *Seeder) demoArtist(ctx context.Context) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, DemoEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user = &models.User{
		Email:       DemoEmail,
		Password:    string(hash),
		DisplayName: "Demo Artist",
		AvatarURL:   "https://i.pravatar.cc/150?img=11",
		Role:        models.RoleUser,
		Level:       1,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create demo artist: %w", err)
	}
	return user, nil
}

// theme returns the stored theme with t's title, creating t when missing
func (s *Seeder) theme(ctx context.Context, t *models.CompetitionTheme) (*models.CompetitionTheme, error) {
	existing, err := s.themes.GetThemeByTitle(ctx, t.Title)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := s.themes.CreateTheme(ctx, t); err != nil {
		return nil, fmt.Errorf("create theme %q: %w", t.Title, err)
	}
	return t, nil
}
