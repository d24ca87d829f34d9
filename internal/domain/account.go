package domain

import "time"

// Account is one registered user of the converter panel. The account row is
// also the login credential: deleting it revokes the ability to sign in.
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string // argon2 encoded
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
