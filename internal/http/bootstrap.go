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

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP creates the first admin account on a fresh deployment.
//
//	@Summary		Bootstrap the first admin
//	@Description	Creates the initial admin account. Requires the pre-configured bootstrap token and only works while no accounts exist.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			request	body		panelsdk.BootstrapRequest	true	"Bootstrap token and admin details"
//	@Success		201		{object}	panelsdk.BootstrapResponse	"Created admin account ID"
//	@Failure		401		{object}	panelsdk.APIError			"Invalid token or system already bootstrapped"
//	@Failure		404		{object}	panelsdk.APIError			"Bootstrap not enabled"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	var req panelsdk.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		panelsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	adminID, err := h.BootstrapService.Bootstrap(r.Context(), req.Token, req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapDisabled):
			panelsdk.NewAPIError(http.StatusNotFound, "not_found", "bootstrap endpoint is not enabled").WriteError(w)
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			panelsdk.NewAPIError(http.StatusUnauthorized, "unauthorized", "invalid bootstrap token").WriteError(w)
		case errors.Is(err, service.ErrBootstrapAlready):
			panelsdk.NewAPIError(http.StatusUnauthorized, "unauthorized", "system has already been bootstrapped").WriteError(w)
		case errors.Is(err, service.ErrInvalidInput):
			panelsdk.ErrInvalidRequest.WriteError(w)
		default:
			l.Error("bootstrap failed", "err", err)
			panelsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, panelsdk.BootstrapResponse{AdminID: adminID})
}
