package panelsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Session is an authenticated panel session. All methods send the bearer
// token issued at login; the server may revoke it at any time, after which
// every call returns an *APIError with code "invalid_token".
type Session struct {
	client      *Client
	accessToken string
	account     AccountInfo
}

func newSession(c *Client, tok TokenResponse) *Session {
	return &Session{
		client:      c,
		accessToken: tok.AccessToken,
		account:     tok.Account,
	}
}

// AccessToken returns the raw bearer token, for panels that persist it.
func (s *Session) AccessToken() string { return s.accessToken }

// Account returns the account snapshot taken at login. Use Me for a fresh
// read; admin state in particular can change underneath a session.
func (s *Session) Account() AccountInfo { return s.account }

// Me returns a fresh read of the signed-in account.
func (s *Session) Me(ctx context.Context) (AccountInfo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/me", nil)
	if err != nil {
		return AccountInfo{}, err
	}

	var info AccountInfo
	if err := decodeJSON(resp, &info, http.StatusOK); err != nil {
		return AccountInfo{}, err
	}
	return info, nil
}

// Logout revokes the session on the server.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/logout", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Currencies returns picker codes matching the query. An empty query lists
// the first page of the full set.
func (s *Session) Currencies(ctx context.Context, query string) ([]string, error) {
	path := "/v1/currencies"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out CurrenciesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Currencies, nil
}

// RefreshCurrencies re-fetches the full currency set from the rate API. On
// failure the server keeps the previously loaded set.
func (s *Session) RefreshCurrencies(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/currencies/refresh", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Select commits a currency code into the "from" or "to" slot.
func (s *Session) Select(ctx context.Context, side, code string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/v1/selection/"+url.PathEscape(side), SelectRequest{Code: code})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Selection returns the session's current slots.
func (s *Session) Selection(ctx context.Context) (SelectionResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/selection", nil)
	if err != nil {
		return SelectionResponse{}, err
	}

	var out SelectionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return SelectionResponse{}, err
	}
	return out, nil
}

// ResetSelection clears both slots.
func (s *Session) ResetSelection(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/selection", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Convert runs the conversion workflow against the currently selected cell.
func (s *Session) Convert(ctx context.Context) (ConvertResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/convert", nil)
	if err != nil {
		return ConvertResponse{}, err
	}

	var out ConvertResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return ConvertResponse{}, err
	}
	return out, nil
}

// Users lists every account in storage order. Admin only.
func (s *Session) Users(ctx context.Context) ([]AccountInfo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/users", nil)
	if err != nil {
		return nil, err
	}

	var out UsersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// SetAdmin grants or revokes the admin role on another account. Admin only;
// targeting your own account is refused.
func (s *Session) SetAdmin(ctx context.Context, accountID string, isAdmin bool) error {
	path := fmt.Sprintf("/v1/users/%s/admin", url.PathEscape(accountID))
	resp, err := s.doAuthRequest(ctx, http.MethodPut, path, SetAdminRequest{IsAdmin: isAdmin})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// DeleteUser removes another account and revokes its sessions. Admin only;
// targeting your own account is refused.
func (s *Session) DeleteUser(ctx context.Context, accountID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/users/"+url.PathEscape(accountID), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
