package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harborlane/sheetrate/internal/service"
	"github.com/harborlane/sheetrate/pkg/httpx"
	"github.com/harborlane/sheetrate/pkg/panelsdk"
	"github.com/harborlane/sheetrate/pkg/slogx"
)

type AuthHandler struct {
	AccountService *service.AccountService
}

// HandleRegister creates an account and signs it in.
//
//	@Summary		Register a new account
//	@Description	Creates an account and returns a session token. New accounts never hold the admin role.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		panelsdk.RegisterRequest	true	"Registration details"
//	@Success		201		{object}	panelsdk.TokenResponse		"Session token and account"
//	@Failure		400		{object}	panelsdk.APIError			"Malformed request or invalid fields"
//	@Failure		409		{object}	panelsdk.APIError			"Email already registered"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req panelsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		panelsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.AccountService.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			panelsdk.ErrEmailTaken.WriteError(w)
		case errors.Is(err, service.ErrInvalidInput):
			panelsdk.ErrInvalidRequest.WriteError(w)
		default:
			slogx.FromContext(r.Context()).Error("register failed", "err", err)
			panelsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, tokenResponse(res))
}

// HandleLogin verifies credentials and mints a session token.
//
//	@Summary		Log in
//	@Description	Verifies the email and password and returns a session token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		panelsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	panelsdk.TokenResponse	"Session token and account"
//	@Failure		401		{object}	panelsdk.APIError		"Invalid email or password"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req panelsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		panelsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.AccountService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			panelsdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		slogx.FromContext(r.Context()).Error("login failed", "err", err)
		panelsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse(res))
}

// HandleLogout revokes the session behind the bearer token.
//
//	@Summary		Log out
//	@Description	Revokes the current session. The token stops working immediately, before its own expiry.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"Session revoked"
//	@Failure		401	{object}	panelsdk.APIError	"Invalid or missing session token"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sid := httpx.SessionIDFromCtx(ctx)
	if sid == "" {
		panelsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.AccountService.Logout(ctx, sid); err != nil {
		slogx.FromContext(ctx).Error("logout failed", "session_id", sid, "err", err)
		panelsdk.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func tokenResponse(res *service.TokenResult) panelsdk.TokenResponse {
	return panelsdk.TokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(res.ExpiresIn.Seconds()),
		Account:     accountInfo(res.Account),
	}
}
