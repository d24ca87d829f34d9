package domain

import "time"

// Session is one revocable panel sign-in. The bearer JWT references the
// session by ID; revoking the row invalidates the token before its expiry.
type Session struct {
	ID        string
	AccountID string
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Live reports whether the session is usable at time now.
func (s Session) Live(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}
