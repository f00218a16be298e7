package domain

import "time"

// ShareLink grants time-boxed, optionally password-protected read access to
// one ticket without an account. The token is opaque: nothing about the
// ticket or issuer is derivable from it. Immutable once issued; a link past
// ExpiresAt is indistinguishable from one that never existed.
type ShareLink struct {
	Token        string
	TicketID     string
	CompanyID    string
	ExpiresAt    time.Time
	PasswordHash string
	IssuedBy     string
	IssuedAt     time.Time
}

// RequiresPassword reports whether validation needs a supplied password.
func (l ShareLink) RequiresPassword() bool {
	return l.PasswordHash != ""
}
