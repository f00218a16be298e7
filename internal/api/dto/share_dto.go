package dto

import "time"

// CreateShareLinkRequest payload.
type CreateShareLinkRequest struct {
	TTLDays  int    `json:"ttl_days"`
	Password string `json:"password,omitempty"`
}

// ShareLinkResponse returns the issued link. The password hash never leaves
// the server; only whether a password is required is disclosed.
type ShareLinkResponse struct {
	Token            string    `json:"token"`
	TicketID         string    `json:"ticket_id"`
	ExpiresAt        time.Time `json:"expires_at"`
	PasswordRequired bool      `json:"password_required"`
	IssuedAt         time.Time `json:"issued_at"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the issued access token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CompanyID string    `json:"company_id"`
}
