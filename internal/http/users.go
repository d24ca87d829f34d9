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

type UsersHandler struct {
	DirectoryService *service.DirectoryService
}

// HandleList returns every account in storage order.
//
//	@Summary		List accounts
//	@Description	Returns the full directory in storage order. Admin only.
//	@Tags			Directory
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	panelsdk.UsersResponse	"All accounts"
//	@Failure		403	{object}	panelsdk.APIError		"Admin privileges required"
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accounts, err := h.DirectoryService.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list accounts", "err", err)
		panelsdk.ErrServerError.WriteError(w)
		return
	}

	users := make([]panelsdk.AccountInfo, len(accounts))
	for i, a := range accounts {
		users[i] = accountInfo(a)
	}
	httpx.WriteJSON(w, http.StatusOK, panelsdk.UsersResponse{Users: users})
}

// HandleSetAdmin grants or revokes the admin role on the target account.
//
//	@Summary		Set admin role
//	@Description	Grants or revokes admin on another account. The acting account is re-read fresh; targeting your own account is refused.
//	@Tags			Directory
//	@Security		BearerAuth
//	@Accept			json
//	@Param			id		path	string						true	"Target account ID"
//	@Param			request	body	panelsdk.SetAdminRequest	true	"Desired admin state"
//	@Success		204	"Role updated"
//	@Failure		403	{object}	panelsdk.APIError	"Not an admin, or self-target"
//	@Failure		404	{object}	panelsdk.APIError	"No such account"
//	@Router			/v1/users/{id}/admin [put].
func (h *UsersHandler) HandleSetAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actingID := httpx.AccountIDFromCtx(ctx)
	targetID := r.PathValue("id")

	var req panelsdk.SetAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		panelsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.DirectoryService.SetAdmin(ctx, actingID, targetID, req.IsAdmin); err != nil {
		h.writeDirectoryError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes the target account.
//
//	@Summary		Delete an account
//	@Description	Removes the account, its login credential, and its live sessions. Targeting your own account is refused.
//	@Tags			Directory
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Target account ID"
//	@Success		204	"Account deleted"
//	@Failure		403	{object}	panelsdk.APIError	"Not an admin, or self-target"
//	@Failure		404	{object}	panelsdk.APIError	"No such account"
//	@Router			/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actingID := httpx.AccountIDFromCtx(ctx)
	targetID := r.PathValue("id")

	if err := h.DirectoryService.Delete(ctx, actingID, targetID); err != nil {
		h.writeDirectoryError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) writeDirectoryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		panelsdk.ErrNotAuthorized.WriteError(w)
	case errors.Is(err, service.ErrSelfTargetForbidden):
		panelsdk.ErrSelfTargetForbidden.WriteError(w)
	case errors.Is(err, service.ErrAccountNotFound):
		panelsdk.ErrAccountNotFound.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("directory mutation failed", "err", err)
		panelsdk.ErrServerError.WriteError(w)
	}
}
