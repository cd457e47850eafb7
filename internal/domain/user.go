package domain

import "errors"

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

// Role represents the account kind chosen at registration.
type Role string

const (
	RoleEmployer Role = "employer"
	RoleSeeker   Role = "seeker"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleEmployer || r == RoleSeeker
}

// User is the domain model for employers and seekers.
type User struct {
	ID           int64
	Name         *string
	Email        string
	PasswordHash string
	Role         Role
	Experience   *string
	ResumePath   *string
}

// DisplayName falls back to the email when no name was given.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}
