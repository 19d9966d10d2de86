package services

import (
	"context"
	"fmt"
	"time"

	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/repositories"
)

// ThemeService manages competition themes
type ThemeService struct {
	themes repositories.ThemeRepository
	now    func() time.Time
}

// NewThemeService creates a new ThemeService
func NewThemeService(themes repositories.ThemeRepository) *ThemeService {
	return &ThemeService{themes: themes, now: func() time.Time { return time.Now().UTC() }}
}

// Active returns the running competition with the latest end date.
// The Freestyle gallery never counts as a competition.
func (s *ThemeService) Active(ctx context.Context) (*models.CompetitionTheme, error) {
	themes, err := s.themes.GetActiveThemes(ctx, s.now())
	if err != nil {
		return nil, err
	}
	for i := range themes {
		if !themes[i].IsFreestyle() {
			return &themes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no active competition", ErrNotFound)
}

// Selectable lists the themes a new post may be submitted to: every
// running theme, or the Freestyle gallery when nothing is running.
func (s *ThemeService) Selectable(ctx context.Context) ([]models.CompetitionTheme, error) {
	themes, err := s.themes.GetActiveThemes(ctx, s.now())
	if err != nil {
		return nil, err
	}
	if len(themes) > 0 {
		return themes, nil
	}
	freestyle, err := s.themes.GetThemeByTitle(ctx, models.FreestyleThemeTitle)
	if err != nil {
		if isNotFound(err) {
			return []models.CompetitionTheme{}, nil
		}
		return nil, err
	}
	return []models.CompetitionTheme{*freestyle}, nil
}

// Create adds a competition theme. Admins only.
func (s *ThemeService) Create(ctx context.Context, viewer Viewer, req models.CreateThemeRequest) (*models.CompetitionTheme, error) {
	if !viewer.IsAdmin {
		return nil, fmt.Errorf("%w: only admins can create themes", ErrForbidden)
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidOperation)
	}
	theme := &models.CompetitionTheme{
		Title:             req.Title,
		Description:       req.Description,
		StartDate:         req.StartDate.UTC(),
		EndDate:           req.EndDate.UTC(),
		ReferenceImageURL: req.ReferenceImageURL,
	}
	if err := s.themes.CreateTheme(ctx, theme); err != nil {
		return nil, err
	}
	return theme, nil
}

// EnsureFreestyle returns the Freestyle gallery, creating it when missing
func (s *ThemeService) EnsureFreestyle(ctx context.Context) (*models.CompetitionTheme, error) {
	theme, err := s.themes.GetThemeByTitle(ctx, models.FreestyleThemeTitle)
	if err == nil {
		return theme, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	now := s.now()
	theme = &models.CompetitionTheme{
		Title:       models.FreestyleThemeTitle,
		Description: "Post anything, any time.",
		StartDate:   now.AddDate(-1, 0, 0),
		EndDate:     now.AddDate(100, 0, 0),
	}
	if err := s.themes.CreateTheme(ctx, theme); err != nil {
		return nil, err
	}
	return theme, nil
}

// CheckOpen fails unless themeID names the Freestyle gallery or a running competition
func (s *ThemeService) CheckOpen(ctx context.Context, themeID uint) (*models.CompetitionTheme, error) {
	theme, err := s.themes.GetThemeByID(ctx, themeID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: theme %d does not exist", ErrInvalidOperation, themeID)
		}
		return nil, err
	}
	if !theme.IsFreestyle() && !theme.IsActive(s.now()) {
		return nil, fmt.Errorf("%w: theme %q is not accepting entries", ErrInvalidOperation, theme.Title)
	}
	return theme, nil
}
