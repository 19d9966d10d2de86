package models

import "time"

// FreestyleThemeTitle names the always-open gallery that posts fall back to
// when no competition is running.
const FreestyleThemeTitle = "Freestyle Gallery"

// CompetitionTheme is a time-boxed competition posts are submitted to
type CompetitionTheme struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Title             string    `json:"title" gorm:"size:120;not null"`
	Description       string    `json:"description"`
	StartDate         time.Time `json:"start_date" gorm:"index"`
	EndDate           time.Time `json:"end_date" gorm:"index"`
	ReferenceImageURL string    `json:"reference_image_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// IsActive reports whether now falls inside the competition window.
func (t *CompetitionTheme) IsActive(now time.Time) bool {
	return !now.Before(t.StartDate) && !now.After(t.EndDate)
}

// IsFreestyle reports whether this is the fallback gallery.
func (t *CompetitionTheme) IsFreestyle() bool {
	return t.Title == FreestyleThemeTitle
}

type CreateThemeRequest struct {
	Title             string    `json:"title" validate:"required,max=120"`
	Description       string    `json:"description"`
	StartDate         time.Time `json:"start_date" validate:"required"`
	EndDate           time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	ReferenceImageURL string    `json:"reference_image_url,omitempty" validate:"omitempty,url"`
}
