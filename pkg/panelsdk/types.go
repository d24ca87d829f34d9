package panelsdk

import "time"

// RegisterRequest creates an account and signs it in.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest signs in to an existing account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"` // always "Bearer"
	ExpiresIn   int         `json:"expires_in"` // seconds
	Account     AccountInfo `json:"account"`
}

// AccountInfo is the wire shape of one directory entry. Password material
// never leaves the server.
type AccountInfo struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

// BootstrapRequest creates the first admin account on a fresh deployment.
type BootstrapRequest struct {
	Token       string `json:"token"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// BootstrapResponse returns the new admin's account ID.
type BootstrapResponse struct {
	AdminID string `json:"admin_id"`
}

// CurrenciesResponse lists picker codes for the current query.
type CurrenciesResponse struct {
	Currencies []string `json:"currencies"`
}

// SelectRequest commits a currency code into a selection slot.
type SelectRequest struct {
	Code string `json:"code"`
}

// SelectionResponse is the session's current from/to slots; empty string
// means the slot is unset.
type SelectionResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ConvertResponse describes a completed conversion. Message is the exact
// text the panel shows in its status region.
type ConvertResponse struct {
	Amount    float64 `json:"amount"`
	Rate      float64 `json:"rate"`
	Converted float64 `json:"converted"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Message   string  `json:"message"`
}

// UsersResponse lists every account in storage order.
type UsersResponse struct {
	Users []AccountInfo `json:"users"`
}

// SetAdminRequest grants or revokes the admin role on a target account.
type SetAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// HealthChecks reports per-dependency health on /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
