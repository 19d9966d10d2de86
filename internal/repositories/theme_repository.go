package repositories

import (
	"context"
	"time"

	"github.com/clashart/backend/internal/models"
	"gorm.io/gorm"
)

// ThemeRepository defines the interface for competition theme storage
type ThemeRepository interface {
	CreateTheme(ctx context.Context, theme *models.CompetitionTheme) error
	GetThemeByID(ctx context.Context, id uint) (*models.CompetitionTheme, error)
	GetThemeByTitle(ctx context.Context, title string) (*models.CompetitionTheme, error)
	GetActiveThemes(ctx context.Context, now time.Time) ([]models.CompetitionTheme, error)
}

// PostgresThemeRepository implements ThemeRepository on top of gorm
type PostgresThemeRepository struct {
	db *gorm.DB
}

// NewPostgresThemeRepository creates a new PostgresThemeRepository
func NewPostgresThemeRepository(db *gorm.DB) *PostgresThemeRepository {
	return &PostgresThemeRepository{db: db}
}

func (r *PostgresThemeRepository) CreateTheme(ctx context.Context, theme *models.CompetitionTheme) error {
	return r.db.WithContext(ctx).Create(theme).Error
}

func (r *PostgresThemeRepository) GetThemeByID(ctx context.Context, id uint) (*models.CompetitionTheme, error) {
	var theme models.CompetitionTheme
	if err := r.db.WithContext(ctx).First(&theme, id).Error; err != nil {
		return nil, err
	}
	return &theme, nil
}

func (r *PostgresThemeRepository) GetThemeByTitle(ctx context.Context, title string) (*models.CompetitionTheme, error) {
	var theme models.CompetitionTheme
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&theme).Error; err != nil {
		return nil, err
	}
	return &theme, nil
}

// GetActiveThemes returns themes whose window contains now, latest end date first
func (r *PostgresThemeRepository) GetActiveThemes(ctx context.Context, now time.Time) ([]models.CompetitionTheme, error) {
	themes := []models.CompetitionTheme{}
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Order("end_date DESC").Order("id").
		Find(&themes).Error
	return themes, err
}
