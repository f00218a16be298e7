package domain

import "time"

// User is the account record behind an Actor. Role is fixed per account and
// immutable for the lifetime of a session token.
type User struct {
	ID           string
	CompanyID    string
	Name         string
	Email        string
	PasswordHash string
	Role         RoleTag
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AsActor derives the authorization identity for this account.
func (u *User) AsActor() Actor {
	return Actor{ID: u.ID, Role: u.Role, CompanyID: u.CompanyID}
}
