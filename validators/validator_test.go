package validators

import (
	"net/http"
	"testing"
	"time"

	"github.com/clashart/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&models.CreateLocalUserRequest{DisplayName: "al", Email: "nope", Password: "12345678"})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Contains(t, he.Message, "display_name must be at least 3 characters")
	assert.Contains(t, he.Message, "email must be a valid email")

	assert.NoError(t, v.Validate(&models.CreateLocalUserRequest{DisplayName: "alice", Email: "a@b.co", Password: "12345678"}))
}

func TestValidateThemeWindow(t *testing.T) {
	v := NewValidator()
	now := time.Now()

	err := v.Validate(&models.CreateThemeRequest{Title: "x", StartDate: now, EndDate: now.Add(-time.Hour)})
	assert.Error(t, err)
	assert.NoError(t, v.Validate(&models.CreateThemeRequest{Title: "x", StartDate: now, EndDate: now.Add(time.Hour)}))
}
