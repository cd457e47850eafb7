package domain

import "time"

// Session is the authenticated context carried by the session cookie.
type Session struct {
	ID        string
	UserID    int64
	Role      Role
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Actor is the caller a workflow acts on behalf of.
type Actor struct {
	UserID int64
	Role   Role
	Email  string
}

// Is reports whether the actor holds role.
func (a Actor) Is(role Role) bool {
	return a.Role == role
}
