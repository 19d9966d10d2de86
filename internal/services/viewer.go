package services

import "github.com/clashart/backend/internal/models"

// Viewer is the identity a request acts as. A zero ID is anonymous.
type Viewer struct {
	ID      uint
	IsAdmin bool
}

// Anonymous is the viewer of unauthenticated requests
var Anonymous = Viewer{}

// ViewerFromUser builds the viewer for an authenticated user
func ViewerFromUser(u *models.User) Viewer {
	return Viewer{ID: u.ID, IsAdmin: u.IsAdmin()}
}

// IsAnonymous reports whether no user is signed in
func (v Viewer) IsAnonymous() bool {
	return v.ID == 0
}
