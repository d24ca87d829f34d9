package http

import (
	"net/http"

	"github.com/harborlane/sheetrate/internal/domain"
	"github.com/harborlane/sheetrate/internal/service"
	"github.com/harborlane/sheetrate/pkg/httpx"
	"github.com/harborlane/sheetrate/pkg/panelsdk"
	"github.com/harborlane/sheetrate/pkg/slogx"
)

type MeHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP returns a fresh read of the signed-in account. The panel decides
// from this whether to render the admin region; the admin flag is read from
// the store on every call, never from the token.
//
//	@Summary		Get own account
//	@Description	Returns the authenticated account, including its current admin state.
//	@Tags			Account
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	panelsdk.AccountInfo	"Account details"
//	@Failure		401	{object}	panelsdk.APIError		"Invalid or missing session token"
//	@Router			/v1/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID := httpx.AccountIDFromCtx(ctx)
	if accountID == "" {
		panelsdk.ErrInvalidToken.WriteError(w)
		return
	}

	account, err := h.AccountService.Me(ctx, accountID)
	if err != nil {
		slogx.FromContext(ctx).Warn("failed to load account", "account_id", accountID, "err", err)
		panelsdk.ErrInvalidToken.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountInfo(account))
}

func accountInfo(a domain.Account) panelsdk.AccountInfo {
	return panelsdk.AccountInfo{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		IsAdmin:     a.IsAdmin,
		CreatedAt:   a.CreatedAt,
	}
}
