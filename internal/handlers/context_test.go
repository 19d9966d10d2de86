package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clashart/backend/internal/middleware"
	"github.com/clashart/backend/internal/models"
	"github.com/clashart/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestToHTTPError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: self follow", services.ErrInvalidOperation), http.StatusBadRequest},
		{fmt.Errorf("%w: user 7", services.ErrNotFound), http.StatusNotFound},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrConflict, http.StatusConflict},
		{services.ErrContentRejected, http.StatusUnprocessableEntity},
		{echo.NewHTTPError(http.StatusTeapot, "kept"), http.StatusTeapot},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		var he *echo.HTTPError
		require.ErrorAs(t, toHTTPError(tc.err), &he)
		assert.Equal(t, tc.code, he.Code, tc.err.Error())
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	var he *echo.HTTPError
	require.ErrorAs(t, toHTTPError(errors.New("password=hunter2")), &he)
	assert.Equal(t, "Internal server error", he.Message)
}

func TestPagination(t *testing.T) {
	page, limit := pagination(newContext("/feed"))
	assert.Equal(t, 1, page)
	assert.Equal(t, services.DefaultPageSize, limit)

	page, limit = pagination(newContext("/feed?page=3&limit=10"))
	assert.Equal(t, 3, page)
	assert.Equal(t, 10, limit)

	page, limit = pagination(newContext("/feed?page=-1&limit=5000"))
	assert.Equal(t, 1, page)
	assert.Equal(t, services.DefaultPageSize, limit)
}

func TestParseID(t *testing.T) {
	c := newContext("/users/12")
	c.SetParamNames("id")
	c.SetParamValues("12")
	id, err := parseID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	c.SetParamValues("zero")
	_, err = parseID(c, "id")
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestViewerFromContext(t *testing.T) {
	c := newContext("/feed")
	assert.True(t, viewerFromContext(c).IsAnonymous())
	_, err := requireViewer(c)
	assert.Error(t, err)

	c.Set(middleware.ClaimsKey, &models.JwtCustomClaims{UserID: 4, Role: models.RoleAdmin})
	v, err := requireViewer(c)
	require.NoError(t, err)
	assert.Equal(t, services.Viewer{ID: 4, IsAdmin: true}, v)
}
