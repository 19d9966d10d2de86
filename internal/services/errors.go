package services

import (
	"errors"

	"github.com/clashart/backend/internal/repositories"
	"gorm.io/gorm"
)

// Sentinel errors returned by the services. Handlers map them to HTTP
// status codes; callers match them with errors.Is.
var (
	ErrInvalidOperation = errors.New("invalid operation")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrContentRejected  = errors.New("content rejected")
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repositories.ErrPostNotFound)
}
